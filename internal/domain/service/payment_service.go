package service

import (
	"context"
)

// PaymentItem is one line of a capture request, carrying the order's stored
// name/price snapshot.
type PaymentItem struct {
	Name     string
	Price    float64
	Quantity int
}

// PaymentRequest describes the capture handshake's first step. The breakdown
// must match the order's stored totals exactly.
type PaymentRequest struct {
	OrderID       string
	Currency      string
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
	Items         []PaymentItem
}

// CaptureResult is the gateway's capture payload, stored verbatim on the
// order when it is marked paid.
type CaptureResult struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"payer_email"`
}

// PaymentGateway is the external payment capture collaborator. Both calls are
// synchronous; a failure fails the in-flight request.
type PaymentGateway interface {
	// CreateOrder submits a capture request and returns the gateway's
	// intent identifier.
	CreateOrder(ctx context.Context, req PaymentRequest) (string, error)
	// CaptureOrder submits a capture instruction for a previously created
	// intent.
	CaptureOrder(ctx context.Context, intentID string) (*CaptureResult, error)
}
