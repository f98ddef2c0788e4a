package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pickupclub/storefront/internal/order"
)

// OrderItemOption references a selected menu option on an order line.
type OrderItemOption struct {
	MenuOptionID int64  `json:"menuOptionId"`
	Name         string `json:"name,omitempty"`
	Price        int64  `json:"price,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	MenuID   int64             `json:"menuId"`
	MenuName string            `json:"menuName,omitempty"`
	Price    int64             `json:"price,omitempty"`
	Quantity int               `json:"quantity"`
	Options  []OrderItemOption `json:"options,omitempty"`
}

// Order is an order as reported by the backend. TotalPrice is authoritative;
// the client never recomputes it once the order exists.
type Order struct {
	ID              int64        `json:"orderId"`
	OrderNumber     string       `json:"orderNumber"`
	StoreID         int64        `json:"storeId"`
	StoreName       string       `json:"storeName"`
	UserID          int64        `json:"userId"`
	Nickname        string       `json:"nickname"`
	Status          order.Status `json:"status"`
	Items           []OrderItem  `json:"items"`
	TotalPrice      int64        `json:"totalPrice"`
	PickupTime      time.Time    `json:"pickupTime"`
	NeedDisposables bool         `json:"needDisposables"`
	Request         string       `json:"request,omitempty"`
	EstimatedTime   int          `json:"estimatedTime"`
	RejectReason    string       `json:"rejectReason,omitempty"`
	CancelReason    string       `json:"cancelReason,omitempty"`
	CancelledBy     string       `json:"cancelledBy,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Content []Order `json:"content"`
	PageMeta
}

// OrderCreateRequest opens a new order. Options are referenced by id only;
// the backend resolves names and prices itself.
type OrderCreateRequest struct {
	StoreID         int64       `json:"storeId"`
	Items           []OrderItem `json:"orderItems"`
	PickupTime      time.Time   `json:"pickupTime"`
	NeedDisposables bool        `json:"needDisposables"`
	Request         string      `json:"request,omitempty"`
}

// CreateOrder opens an order in PAYMENT_PENDING and returns it.
func (c *Client) CreateOrder(ctx context.Context, req OrderCreateRequest) (*Order, error) {
	var o Order
	if err := c.call(ctx, http.MethodPost, "/orders", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder returns a single order visible to the caller.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d", orderID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderQuery narrows and pages an order listing. CustomerID and Date only
// apply to the store-side and admin listings.
type OrderQuery struct {
	Status     order.Status
	CustomerID int64
	Date       time.Time
	Page       int
	Size       int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.CustomerID > 0 {
		v.Set("customerId", strconv.FormatInt(q.CustomerID, 10))
	}
	if !q.Date.IsZero() {
		v.Set("date", q.Date.Format(salesDateLayout))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// MyOrders returns the caller's own order history.
func (c *Client) MyOrders(ctx context.Context, q OrderQuery) (*OrderPage, error) {
	var page OrderPage
	if err := c.call(ctx, http.MethodGet, "/orders/my", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyActiveOrders returns the caller's orders that are not yet settled.
func (c *Client) MyActiveOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.call(ctx, http.MethodGet, "/orders/my/active", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CustomerCancel cancels the caller's own order, recording why.
func (c *Client) CustomerCancel(ctx context.Context, orderID int64, reason string) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d/customer-cancel", orderID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MyStoreOrders returns the orders placed at the owner's store.
func (c *Client) MyStoreOrders(ctx context.Context, q OrderQuery) (*OrderPage, error) {
	var page OrderPage
	if err := c.call(ctx, http.MethodGet, "/orders/my-store", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyStoreActiveOrders returns the owner's in-flight orders, the ones that
// still need a kitchen decision or a hand-off.
func (c *Client) MyStoreActiveOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.call(ctx, http.MethodGet, "/orders/store/active", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Accept moves a pending order into cooking with an estimated time in
// minutes.
func (c *Client) Accept(ctx context.Context, orderID int64, estimatedTime int) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d/accept", orderID)
	body := map[string]int{"estimatedTime": estimatedTime}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Reject declines a pending order with a reason.
func (c *Client) Reject(ctx context.Context, orderID int64, reason string) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d/reject", orderID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// StoreCancel cancels an order from the store's side, recording why.
func (c *Client) StoreCancel(ctx context.Context, orderID int64, reason string) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d/store-cancel", orderID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Complete marks a ready order as picked up.
func (c *Client) Complete(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/orders/%d/complete", orderID)
	if err := c.call(ctx, http.MethodPatch, path, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
