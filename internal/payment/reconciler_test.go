package payment

import (
	"context"
	"errors"
	"math"
	"testing"

	"brewbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTender(t *testing.T) {
	total, err := Tender(100, model.CoinTender{model.Quarters: 2, model.Pennies: 3})
	require.NoError(t, err)
	assert.Equal(t, model.Cents(153), total)

	total, err = Tender(153, model.CoinTender{model.Dimes: 4, model.Nickels: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.Cents(153), total, "rejected batch must not be accumulated")
}

func TestTender_Overflow(t *testing.T) {
	total, err := Tender(500, model.CoinTender{model.Dollars: 4611686018427387909})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.Cents(500), total)

	total, err = Tender(math.MaxInt64-100, model.CoinTender{model.Dollars: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.Cents(math.MaxInt64-100), total)
}

func TestSum(t *testing.T) {
	tests := []struct {
		name        string
		batches     []model.CoinTender
		expected    model.Cents
		expectError bool
	}{
		{name: "No batches", expected: 0},
		{name: "Two batches", batches: []model.CoinTender{{model.Dollars: 5}, {model.Dollars: 20}}, expected: 2500},
		{name: "Invalid batch", batches: []model.CoinTender{{model.Dollars: 5}, {model.Dimes: -1}}, expectError: true},
		{
			name:        "Batches overflow together",
			batches:     []model.CoinTender{{model.Dollars: 92233720368547758}, {model.Dollars: 1}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.batches...)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSliceSource_Remaining(t *testing.T) {
	src := NewSliceSource(model.CoinTender{model.Dollars: 5}, model.CoinTender{model.Dollars: 20})

	paid, change, err := Reconcile(context.Background(), 500, src)
	require.NoError(t, err)
	assert.Equal(t, model.Cents(500), paid)
	assert.Equal(t, model.Cents(0), change)
	assert.Equal(t, 1, src.Remaining())
}

func TestSession_SubmitSignalsRemaining(t *testing.T) {
	s := NewSession(500)

	status, err := s.Submit(model.CoinTender{model.Quarters: 19})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatus{Price: 500, Paid: 475, Remaining: 25}, status)

	status, err = s.Submit(model.CoinTender{model.Dimes: 3})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatus{Price: 500, Paid: 505, Change: 5, Complete: true}, status)

	_, err = s.Submit(model.CoinTender{model.Dollars: 1})
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Equal(t, model.Cents(505), s.Paid())
}

func TestSession_InvalidBatchLeavesSessionUntouched(t *testing.T) {
	s := NewSession(500)
	_, err := s.Submit(model.CoinTender{model.Dollars: 2})
	require.NoError(t, err)

	status, err := s.Submit(model.CoinTender{model.Dollars: 3, model.Dimes: -1})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.Cents(200), status.Paid)
	assert.Equal(t, 1, s.Batches())
}

func TestSession_Refund(t *testing.T) {
	s := NewSession(500)
	_, err := s.Submit(model.CoinTender{model.Dollars: 3})
	require.NoError(t, err)

	assert.Equal(t, model.Cents(300), s.Refund())

	_, err = s.Submit(model.CoinTender{model.Dollars: 2})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		price          model.Cents
		batches        []model.CoinTender
		expectedPaid   model.Cents
		expectedChange model.Cents
		expectedErr    error
	}{
		{
			name:           "Exact five dollars",
			price:          500,
			batches:        []model.CoinTender{{model.Dollars: 5}},
			expectedPaid:   500,
			expectedChange: 0,
		},
		{
			name:           "Quarters then dimes",
			price:          500,
			batches:        []model.CoinTender{{model.Quarters: 19}, {model.Dimes: 3}},
			expectedPaid:   505,
			expectedChange: 5,
		},
		{
			name:  "Many small batches",
			price: 350,
			batches: []model.CoinTender{
				{model.Pennies: 50}, {model.Nickels: 10}, {model.Dimes: 10}, {model.Quarters: 4}, {model.Dollars: 1},
			},
			expectedPaid:   400,
			expectedChange: 50,
		},
		{
			name:           "Unused batches are not pulled",
			price:          100,
			batches:        []model.CoinTender{{model.Dollars: 2}, {model.Dollars: 9}},
			expectedPaid:   200,
			expectedChange: 100,
		},
		{
			name:         "Source runs dry",
			price:        500,
			batches:      []model.CoinTender{{model.Dollars: 2}, {model.Dollars: 2}},
			expectedPaid: 400,
			expectedErr:  ErrTenderExhausted,
		},
		{
			name:         "Negative count",
			price:        500,
			batches:      []model.CoinTender{{model.Dollars: 2}, {model.Dollars: -3}},
			expectedPaid: 200,
			expectedErr:  model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, change, err := Reconcile(context.Background(), tt.price, NewSliceSource(tt.batches...))

			assert.Equal(t, tt.expectedPaid, paid)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Zero(t, change)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedChange, change)
			assert.Equal(t, paid-tt.price, change)
		})
	}
}

func TestReconcile_NeverReturnsWhileShort(t *testing.T) {
	var seen []model.PaymentStatus
	calls := 0
	src := TenderSourceFunc(func(ctx context.Context, status model.PaymentStatus) (model.CoinTender, error) {
		seen = append(seen, status)
		calls++
		return model.CoinTender{model.Pennies: 7}, nil
	})

	paid, change, err := Reconcile(context.Background(), 100, src)

	require.NoError(t, err)
	assert.Equal(t, 15, calls, "15 batches of 7 cents are needed to reach 100")
	assert.Equal(t, model.Cents(105), paid)
	assert.Equal(t, model.Cents(5), change)
	for _, status := range seen {
		assert.False(t, status.Complete)
		assert.Equal(t, status.Price-status.Paid, status.Remaining)
	}
}

func TestReconcile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := TenderSourceFunc(func(ctx context.Context, status model.PaymentStatus) (model.CoinTender, error) {
		if status.Paid > 0 {
			cancel()
		}
		return model.CoinTender{model.Quarters: 1}, nil
	})

	paid, _, err := Reconcile(ctx, 500, src)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, model.Cents(50), paid, "everything tendered is reported for refund")
}
