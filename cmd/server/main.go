/*
main.go - Application entry point

PURPOSE:
  Starts the collections CLI. The default subcommand, serve, runs the HTTP
  API; report and seed work directly on snapshots and databases.

STARTUP SEQUENCE:
  1. Load .env (optional)
  2. Load configuration from the environment
  3. Initialize the logger
  4. Dispatch to the cobra command

ENVIRONMENT:
  See config/config.go for every variable (PORT, DB_PATH, LOG_LEVEL, ...).

EXAMPLES:
  # Run the API with a file database
  DB_PATH=./data/collections.db ./server serve

  # Seed a database from a snapshot
  ./server seed --snapshot testdata/march.json

  # Weekly schedule from a snapshot without a database
  ./server report weekly --snapshot testdata/march.json --as-of 2024-03-04

SEE ALSO:
  - serve.go: HTTP server and graceful shutdown
  - report.go: Offline reports
*/
package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	Execute()
}
