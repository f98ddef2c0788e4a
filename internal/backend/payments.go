package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// PaymentMethod names how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// Payment is the backend's record of a settled or attempted payment.
type Payment struct {
	ID            int64         `json:"paymentId"`
	OrderID       int64         `json:"orderId"`
	UserID        int64         `json:"userId"`
	Method        PaymentMethod `json:"paymentMethod"`
	Amount        int64         `json:"paymentAmount"`
	Status        string        `json:"status"`
	ApprovedAt    time.Time     `json:"approvedAt"`
	CancelledAt   time.Time     `json:"cancelledAt"`
	FailureReason string        `json:"failureReason"`
}

// BillingKeyExists reports whether the caller already registered a billing
// key with the payment provider.
func (c *Client) BillingKeyExists(ctx context.Context) (bool, error) {
	var result struct {
		Exists bool `json:"exists"`
	}
	if err := c.call(ctx, http.MethodGet, "/payments/billing-key/exists", nil, nil, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

// SaveBillingKeyRequest registers the provider's authorization with the
// backend so future payments can charge without a redirect.
type SaveBillingKeyRequest struct {
	UserID      int64  `json:"userId"`
	AuthKey     string `json:"authKey"`
	CustomerKey string `json:"customerKey"`
}

func (c *Client) SaveBillingKey(ctx context.Context, req SaveBillingKeyRequest) error {
	return c.call(ctx, http.MethodPost, "/payments/billing-key", nil, req, nil)
}

// DeleteBillingKey removes the stored billing key, forcing the next
// checkout back through the provider redirect.
func (c *Client) DeleteBillingKey(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/payments/billing-key", nil, nil, nil)
}

// ConfirmPaymentRequest asks the backend to charge the stored billing key
// for an order. An amount of zero tells the backend to resolve the amount
// from the order itself.
type ConfirmPaymentRequest struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	UserID        int64         `json:"userId"`
	OrderID       int64         `json:"orderId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentAmount int64         `json:"paymentAmount"`
}

func (c *Client) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*Payment, error) {
	var p Payment
	if err := c.call(ctx, http.MethodPost, "/payments/confirm", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CancelPayment refunds an order's payment, typically after a store-side
// rejection or cancellation.
func (c *Client) CancelPayment(ctx context.Context, orderID int64, reason string) (*Payment, error) {
	var p Payment
	path := fmt.Sprintf("/payments/orders/%d/cancel", orderID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPost, path, nil, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PaymentDetail returns the payment attached to an order.
func (c *Client) PaymentDetail(ctx context.Context, orderID int64) (*Payment, error) {
	var p Payment
	path := fmt.Sprintf("/payments/orders/%d", orderID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
