package entity

import (
	"time"
)

// OrderItem is an immutable snapshot of a product at purchase time. Name and
// price are captured when the order is created, never re-read from the live
// product.
type OrderItem struct {
	ProductID string  `json:"product_id" firestore:"productId"`
	Name      string  `json:"name" firestore:"name"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
	Price     float64 `json:"price" firestore:"price"`
}

type ShippingAddress struct {
	Address    string `json:"address" firestore:"address"`
	City       string `json:"city" firestore:"city"`
	PostalCode string `json:"postal_code" firestore:"postalCode"`
	Country    string `json:"country" firestore:"country"`
}

// PaymentResult stores the payment gateway's capture payload verbatim.
type PaymentResult struct {
	ID           string `json:"id" firestore:"id"`
	Status       string `json:"status" firestore:"status"`
	UpdateTime   string `json:"update_time" firestore:"updateTime"`
	EmailAddress string `json:"email_address" firestore:"emailAddress"`
}

type Order struct {
	ID              string          `json:"id" firestore:"id"`
	UserID          string          `json:"user_id" firestore:"userId"`
	Items           []OrderItem     `json:"items" firestore:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address" firestore:"shippingAddress"`
	PaymentMethod   string          `json:"payment_method" firestore:"paymentMethod"`

	ItemsPrice    float64 `json:"items_price" firestore:"itemsPrice"`
	TaxPrice      float64 `json:"tax_price" firestore:"taxPrice"`
	ShippingPrice float64 `json:"shipping_price" firestore:"shippingPrice"`
	TotalPrice    float64 `json:"total_price" firestore:"totalPrice"`

	// IsPaid and IsDelivered are deliberately independent flags, not one
	// enum: delivery may be recorded before payment confirmation. Both are
	// monotonic; no API operation resets them.
	IsPaid        bool           `json:"is_paid" firestore:"isPaid"`
	PaidAt        *time.Time     `json:"paid_at,omitempty" firestore:"paidAt,omitempty"`
	PaymentResult *PaymentResult `json:"payment_result,omitempty" firestore:"paymentResult,omitempty"`

	IsDelivered bool       `json:"is_delivered" firestore:"isDelivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ContainsProduct reports whether any line item references the given product.
func (o *Order) ContainsProduct(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
