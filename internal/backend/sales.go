package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const salesDateLayout = "2006-01-02"

// SalesSummary aggregates an owner's revenue over a date range.
type SalesSummary struct {
	TotalAmount int64 `json:"totalAmount"`
	OrderCount  int64 `json:"orderCount"`
}

// DailySales is one day's worth of an owner's revenue.
type DailySales struct {
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
	OrderCount int64  `json:"orderCount"`
}

// PopularMenu is a menu ranked by how often it sold in a date range.
type PopularMenu struct {
	MenuID   int64  `json:"menuId"`
	MenuName string `json:"menuName"`
	Quantity int64  `json:"quantity"`
	Amount   int64  `json:"amount"`
}

// SalesRange bounds a sales query. Zero times are omitted, letting the
// backend apply its default window.
type SalesRange struct {
	StartDate time.Time
	EndDate   time.Time
}

func (r SalesRange) values() url.Values {
	v := url.Values{}
	if !r.StartDate.IsZero() {
		v.Set("startDate", r.StartDate.Format(salesDateLayout))
	}
	if !r.EndDate.IsZero() {
		v.Set("endDate", r.EndDate.Format(salesDateLayout))
	}
	return v
}

// SalesSummary returns the owner's aggregate revenue for the range.
func (c *Client) SalesSummary(ctx context.Context, r SalesRange) (*SalesSummary, error) {
	var summary SalesSummary
	if err := c.call(ctx, http.MethodGet, "/sales/summary", r.values(), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DailySales returns the owner's revenue broken down by day.
func (c *Client) DailySales(ctx context.Context, r SalesRange) ([]DailySales, error) {
	var daily []DailySales
	if err := c.call(ctx, http.MethodGet, "/sales/daily", r.values(), nil, &daily); err != nil {
		return nil, err
	}
	return daily, nil
}

// PopularMenus returns the owner's best-selling menus for the range.
func (c *Client) PopularMenus(ctx context.Context, r SalesRange, limit int) ([]PopularMenu, error) {
	v := r.values()
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var menus []PopularMenu
	if err := c.call(ctx, http.MethodGet, "/sales/popular-menus", v, nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}
