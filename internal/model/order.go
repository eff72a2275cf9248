package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderState is a step of the order state machine.
type OrderState string

// Order states. Rejected is terminal and returns the machine to MenuDisplayed.
const (
	StateMenuDisplayed   OrderState = "menu_displayed"
	StateProductSelected OrderState = "product_selected"
	StateSizeSelected    OrderState = "size_selected"
	StateResourceChecked OrderState = "resource_checked"
	StateAddOnSelected   OrderState = "add_on_selected"
	StatePaymentPending  OrderState = "payment_pending"
	StateFulfilled       OrderState = "fulfilled"
	StateRejected        OrderState = "rejected"
)

// Order is the transaction in flight.
type Order struct {
	ID        uuid.UUID    `json:"id"`
	Product   string       `json:"product"`
	Size      string       `json:"size"`
	Sticker   bool         `json:"sticker"`
	Price     Cents        `json:"priceCents"`
	Surcharge Cents        `json:"surchargeCents"`
	Total     Cents        `json:"totalCents"`
	Paid      Cents        `json:"paidCents"`
	Change    Cents        `json:"changeCents"`
	State     OrderState   `json:"state"`
	Consumed  Requirements `json:"consumed,omitempty"`
	StartedAt time.Time    `json:"startedAt"`
}

// PaymentStatus is the reconciler's view after each tender batch.
// Remaining > 0 means more funds are needed.
type PaymentStatus struct {
	Price     Cents `json:"priceCents"`
	Paid      Cents `json:"paidCents"`
	Remaining Cents `json:"remainingCents"`
	Change    Cents `json:"changeCents"`
	Complete  bool  `json:"complete"`
}

// OrderRequest is a complete, non-interactive order: selections, a
// prerecorded sequence of tender batches and the sugar request.
type OrderRequest struct {
	Product      string       `json:"product"`
	Size         string       `json:"size"`
	Sticker      bool         `json:"sticker"`
	Tenders      []CoinTender `json:"tenders"`
	SugarPackets int64        `json:"sugarPackets"`
}

// Receipt is produced once an order has been dispensed.
type Receipt struct {
	ID           uuid.UUID    `json:"id"`
	Product      string       `json:"product"`
	Size         string       `json:"size"`
	Sticker      bool         `json:"sticker"`
	Price        Cents        `json:"priceCents"`
	Surcharge    Cents        `json:"surchargeCents"`
	Total        Cents        `json:"totalCents"`
	Paid         Cents        `json:"paidCents"`
	Change       Cents        `json:"changeCents"`
	SugarPackets int64        `json:"sugarPackets"`
	Consumed     Requirements `json:"consumed"`
	CreatedAt    time.Time    `json:"createdAt"`
}
