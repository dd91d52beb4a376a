package books

import (
	"github.com/turyasin/collections/generic"
)

// DefaultArchiveAfterMonths is the age after which completed records move to
// the archive.
const DefaultArchiveAfterMonths = 3

// ArchiveSplit partitions records into the working set and the archive.
type ArchiveSplit struct {
	Cutoff   generic.Date // records dated strictly before Cutoff may be archived
	Active   Records
	Archived Records
}

// SplitArchive moves completed records older than months to the archive:
//   - invoices that are paid and were due before the cutoff
//   - checks that were collected (received) or paid (issued) before the cutoff
//   - payments made before the cutoff whose invoice is archived or unknown
//
// Everything else stays active. months <= 0 uses the default.
func SplitArchive(asOf generic.Date, months int, r Records) (ArchiveSplit, error) {
	if asOf.IsZero() {
		return ArchiveSplit{}, ErrReferenceDateRequired
	}
	if months <= 0 {
		months = DefaultArchiveAfterMonths
	}
	if err := checkAll("splitArchive", r.Invoices, r.Checks, r.Payments); err != nil {
		return ArchiveSplit{}, err
	}

	split := ArchiveSplit{Cutoff: asOf.AddMonths(-months)}
	archivedInvoice := make(map[string]bool)
	knownInvoice := make(map[string]bool, len(r.Invoices))

	for _, inv := range r.Invoices {
		knownInvoice[inv.ID] = true
		if inv.IsPaid() && inv.DueDate.Before(split.Cutoff) {
			archivedInvoice[inv.ID] = true
			split.Archived.Invoices = append(split.Archived.Invoices, inv)
		} else {
			split.Active.Invoices = append(split.Active.Invoices, inv)
		}
	}
	for _, c := range r.Checks {
		if c.Type.Completed(c.Status) && c.DueDate.Before(split.Cutoff) {
			split.Archived.Checks = append(split.Archived.Checks, c)
		} else {
			split.Active.Checks = append(split.Active.Checks, c)
		}
	}
	for _, p := range r.Payments {
		settled := archivedInvoice[p.InvoiceID] || !knownInvoice[p.InvoiceID]
		if settled && p.PaymentDate.Before(split.Cutoff) {
			split.Archived.Payments = append(split.Archived.Payments, p)
		} else {
			split.Active.Payments = append(split.Active.Payments, p)
		}
	}
	return split, nil
}
