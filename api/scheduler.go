/*
scheduler.go - Automated reminder scheduler

PURPOSE:
  Periodically looks for invoices falling due after the reminder lead time
  and hands them to a Notifier.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Uses the handler clock for the reference date, so tests can pin it
  - The handler remembers delivered reminders; a reminder goes out once per
    invoice and due date no matter how often the scheduler ticks

CONFIGURATION:
  - CheckInterval: How often to check (REMINDER_INTERVAL, default 24h)
  - Enabled: Whether scheduler is active (interval 0 disables it)

USAGE:
  scheduler := NewReminderScheduler(handler, cfg.ReminderInterval)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CheckReminders endpoint (manual trigger)
  - books/reminders.go: DueReminders
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/generic"
	"github.com/turyasin/collections/logger"
)

// Notifier delivers a reminder. Implementations must be safe to call from
// the scheduler goroutine.
type Notifier interface {
	Notify(ctx context.Context, r books.Reminder) error
}

// LogNotifier writes reminders to the log. It is the default until a mail or
// push channel exists.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, r books.Reminder) error {
	n.Log.Info().
		Str("invoice_id", r.Invoice.ID).
		Str("customer", r.Invoice.CustomerName).
		Str("due_date", r.DueDate.String()).
		Str("remaining", generic.FormatMoney(r.Remaining)).
		Str("currency", string(r.Invoice.Currency)).
		Msg("Invoice due soon")
	return nil
}

// ReminderScheduler sends due reminders on a fixed interval.
type ReminderScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	log    zerolog.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReminderScheduler creates a new scheduler. A zero interval disables it.
func NewReminderScheduler(handler *Handler, interval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		Handler:       handler,
		CheckInterval: interval,
		Enabled:       interval > 0,
		log:           logger.WithComponent("scheduler"),
	}
}

// Start begins the scheduler. Starting a running scheduler does nothing.
func (rs *ReminderScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info().Msg("Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.log.Info().Dur("interval", rs.CheckInterval).Msg("Started")
}

// Stop stops the scheduler and waits for a running check to finish.
func (rs *ReminderScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.log.Info().Msg("Stopped")
	}
}

func (rs *ReminderScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndNotify()

	for {
		select {
		case <-ticker.C:
			rs.checkAndNotify()
		case <-stop:
			return
		}
	}
}

// RunNow triggers an immediate check and returns how many reminders went out.
func (rs *ReminderScheduler) RunNow() int {
	return rs.checkAndNotify()
}

func (rs *ReminderScheduler) checkAndNotify() int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	asOf := rs.Handler.Clock.Today()
	reminders, sent, err := rs.Handler.SendReminders(ctx, asOf)
	if err != nil {
		rs.log.Error().Err(err).Str("as_of", asOf.String()).Msg("Reminder check failed")
		return 0
	}
	if len(reminders) > 0 {
		rs.log.Info().
			Str("as_of", asOf.String()).
			Int("due", len(reminders)).
			Int("sent", sent).
			Msg("Reminder check completed")
	}
	return sent
}
