// Package payment accumulates tendered currency until a price is covered.
// All amounts are integer cents.
package payment

import (
	"context"
	"errors"

	"brewbox/internal/model"
)

// ErrTenderExhausted is returned by a TenderSource with no batches left.
var ErrTenderExhausted = errors.New("no more tender available")

// Tender adds the value of batch to totalSoFar. The whole batch is validated
// first; on error the running total is returned unchanged.
func Tender(totalSoFar model.Cents, batch model.CoinTender) (model.Cents, error) {
	value, err := batch.Total()
	if err != nil {
		return totalSoFar, err
	}
	return totalSoFar.Add(value)
}

// Sum returns the value of every batch together. It fails on the first
// invalid batch or when the total does not fit in Cents.
func Sum(batches ...model.CoinTender) (model.Cents, error) {
	var total model.Cents
	for _, batch := range batches {
		next, err := Tender(total, batch)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// Session collects tender for one price. Submit is the resume point: each
// call returns a status whose Remaining field signals that more funds are
// needed.
type Session struct {
	price   model.Cents
	paid    model.Cents
	batches int
	closed  bool
}

// NewSession starts collecting payment for price.
func NewSession(price model.Cents) *Session {
	return &Session{price: price}
}

// Submit accumulates one batch. Invalid batches leave the session untouched.
func (s *Session) Submit(batch model.CoinTender) (model.PaymentStatus, error) {
	if s.closed {
		return s.Status(), model.NewDomainError(model.ErrCodeInvalidState, "payment session is closed")
	}
	if s.paid >= s.price && s.batches > 0 {
		return s.Status(), model.NewDomainError(model.ErrCodeInvalidState, "payment already complete")
	}

	paid, err := Tender(s.paid, batch)
	if err != nil {
		return s.Status(), err
	}

	s.paid = paid
	s.batches++
	return s.Status(), nil
}

// Status reports the session's progress. Change is only non-zero once the
// price has been covered.
func (s *Session) Status() model.PaymentStatus {
	status := model.PaymentStatus{Price: s.price, Paid: s.paid}
	if s.paid >= s.price {
		status.Complete = true
		status.Change = s.paid - s.price
	} else {
		status.Remaining = s.price - s.paid
	}
	return status
}

// Paid returns everything tendered so far.
func (s *Session) Paid() model.Cents {
	return s.paid
}

// Batches returns the number of accepted batches.
func (s *Session) Batches() int {
	return s.batches
}

// Refund closes the session and returns everything tendered.
func (s *Session) Refund() model.Cents {
	refund := s.paid
	s.paid = 0
	s.closed = true
	return refund
}

// TenderSource supplies tender batches on demand. Interactive callers prompt
// the customer; batch callers replay a recorded sequence.
type TenderSource interface {
	Next(ctx context.Context, status model.PaymentStatus) (model.CoinTender, error)
}

// TenderSourceFunc adapts a function to TenderSource.
type TenderSourceFunc func(ctx context.Context, status model.PaymentStatus) (model.CoinTender, error)

// Next calls f.
func (f TenderSourceFunc) Next(ctx context.Context, status model.PaymentStatus) (model.CoinTender, error) {
	return f(ctx, status)
}

// SliceSource replays a fixed sequence of batches.
type SliceSource struct {
	batches []model.CoinTender
	next    int
}

// NewSliceSource creates a source over batches.
func NewSliceSource(batches ...model.CoinTender) *SliceSource {
	return &SliceSource{batches: batches}
}

// Remaining returns the number of batches not yet replayed.
func (s *SliceSource) Remaining() int {
	return len(s.batches) - s.next
}

// Next returns the next recorded batch or ErrTenderExhausted.
func (s *SliceSource) Next(ctx context.Context, _ model.PaymentStatus) (model.CoinTender, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.batches) {
		return nil, ErrTenderExhausted
	}
	batch := s.batches[s.next]
	s.next++
	return batch, nil
}

// Reconcile pulls batches from src until price is covered and returns the
// amount paid and the change. It never succeeds with paid < price. When the
// source fails the returned paid value is what must be refunded.
func Reconcile(ctx context.Context, price model.Cents, src TenderSource) (paid, change model.Cents, err error) {
	session := NewSession(price)
	status := session.Status()

	for !status.Complete || session.Batches() == 0 {
		if err := ctx.Err(); err != nil {
			return session.Paid(), 0, err
		}

		batch, err := src.Next(ctx, status)
		if err != nil {
			return session.Paid(), 0, err
		}

		status, err = session.Submit(batch)
		if err != nil {
			return session.Paid(), 0, err
		}
	}

	return status.Paid, status.Change, nil
}
