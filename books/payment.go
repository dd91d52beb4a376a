package books

import (
	"fmt"

	"github.com/turyasin/collections/generic"
)

// ApplyPayment returns inv with p added to its paid amount and its status
// re-derived. A payment larger than the remainder is rejected.
func ApplyPayment(inv Invoice, p Payment) (Invoice, error) {
	if p.InvoiceID != inv.ID {
		return inv, fmt.Errorf("payment %s references invoice %q, not %q", p.ID, p.InvoiceID, inv.ID)
	}
	if p.Amount.IsNegative() {
		return inv, &ValidationError{Kind: KindPayment, RecordID: p.ID, Field: "amount", Value: p.Amount.String(), Reason: "must not be negative"}
	}
	if p.Amount.GreaterThan(inv.Remaining()) {
		return inv, fmt.Errorf("%w: payment %s of %s, invoice %s has %s left",
			ErrOverpayment, p.ID, generic.FormatMoney(p.Amount), inv.ID, generic.FormatMoney(inv.Remaining()))
	}
	inv.PaidAmount = inv.PaidAmount.Add(p.Amount)
	inv.Status = DeriveStatus(inv.Amount, inv.PaidAmount)
	return inv, nil
}

// ReversePayment undoes ApplyPayment when a payment is deleted.
func ReversePayment(inv Invoice, p Payment) (Invoice, error) {
	if p.InvoiceID != inv.ID {
		return inv, fmt.Errorf("payment %s references invoice %q, not %q", p.ID, p.InvoiceID, inv.ID)
	}
	paid := inv.PaidAmount.Sub(p.Amount)
	if paid.IsNegative() {
		return inv, &ComputationError{Op: "reversePayment", Kind: KindInvoice, RecordID: inv.ID,
			Reason: fmt.Sprintf("reversing payment %s leaves a negative paid amount", p.ID)}
	}
	inv.PaidAmount = paid
	inv.Status = DeriveStatus(inv.Amount, inv.PaidAmount)
	return inv, nil
}
