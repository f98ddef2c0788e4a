package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pickupclub/storefront/internal/order"
	"github.com/pickupclub/storefront/internal/session"
)

// AdminUserPage is one page of the platform's user directory.
type AdminUserPage struct {
	Content []session.User `json:"content"`
	PageMeta
}

// AdminStats is the platform-wide dashboard snapshot.
type AdminStats struct {
	UserCount    int64 `json:"userCount"`
	StoreCount   int64 `json:"storeCount"`
	OrderCount   int64 `json:"orderCount"`
	PendingCount int64 `json:"pendingStoreCount"`
}

// AdminUsers lists registered users across the platform.
func (c *Client) AdminUsers(ctx context.Context, page, size int) (*AdminUserPage, error) {
	var result AdminUserPage
	if err := c.call(ctx, http.MethodGet, "/admin/users", pageValues(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminOrders lists orders across the platform.
func (c *Client) AdminOrders(ctx context.Context, q OrderQuery) (*OrderPage, error) {
	var page OrderPage
	if err := c.call(ctx, http.MethodGet, "/admin/orders", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminStores lists stores across the platform, approved or not.
func (c *Client) AdminStores(ctx context.Context, page, size int) (*StorePage, error) {
	var result StorePage
	if err := c.call(ctx, http.MethodGet, "/admin/stores", pageValues(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetUserRole changes a user's platform role.
func (c *Client) SetUserRole(ctx context.Context, userID int64, role session.Role) (*session.User, error) {
	var user session.User
	path := fmt.Sprintf("/admin/users/%d/role", userID)
	body := map[string]session.Role{"role": role}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user account from the platform.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/admin/users/%d", userID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// AdminUpdateOrderStatus overrides an order's status from the admin side.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID int64, status order.Status) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/admin/orders/%d/status", orderID)
	body := map[string]order.Status{"status": status}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AdminCancelOrder cancels any order on the platform, recording why.
func (c *Client) AdminCancelOrder(ctx context.Context, orderID int64, reason string) (*Order, error) {
	var o Order
	path := fmt.Sprintf("/admin/orders/%d/cancel", orderID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ApproveStore approves a pending store registration.
func (c *Client) ApproveStore(ctx context.Context, storeID int64) (*Store, error) {
	var store Store
	path := fmt.Sprintf("/admin/stores/%d/approve", storeID)
	if err := c.call(ctx, http.MethodPatch, path, nil, nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// RejectStore declines a pending store registration with a reason.
func (c *Client) RejectStore(ctx context.Context, storeID int64, reason string) (*Store, error) {
	var store Store
	path := fmt.Sprintf("/admin/stores/%d/reject", storeID)
	body := map[string]string{"reason": reason}
	if err := c.call(ctx, http.MethodPatch, path, nil, body, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// StoreUpdateRequest carries an admin-side edit of a store's listing.
type StoreUpdateRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RoadAddress   string `json:"roadAddress"`
	AddressDetail string `json:"addressDetail"`
	PhoneNumber   string `json:"phoneNumber"`
	ImageURL      string `json:"imageUrl"`
	CategoryID    int64  `json:"categoryId"`
}

// UpdateStore edits a store's listing from the admin side.
func (c *Client) UpdateStore(ctx context.Context, storeID int64, req StoreUpdateRequest) (*Store, error) {
	var store Store
	path := fmt.Sprintf("/admin/stores/%d", storeID)
	if err := c.call(ctx, http.MethodPut, path, nil, req, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// DeleteStore removes a store listing entirely.
func (c *Client) DeleteStore(ctx context.Context, storeID int64) error {
	path := fmt.Sprintf("/admin/stores/%d", storeID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Stats returns the platform dashboard counters.
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.call(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
