package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Review is a customer review of a completed order.
type Review struct {
	ID        int64     `json:"reviewId"`
	StoreID   int64     `json:"storeId"`
	OrderID   int64     `json:"orderId"`
	UserID    int64     `json:"userId"`
	Nickname  string    `json:"nickname"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewPage is one page of a review listing.
type ReviewPage struct {
	Content []Review `json:"content"`
	PageMeta
}

// ReviewStats aggregates a store's review scores.
type ReviewStats struct {
	StoreID       int64   `json:"storeId"`
	ReviewCount   int64   `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
}

func pageValues(page, size int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	return v
}

// StoreReviews returns a page of reviews for a store.
func (c *Client) StoreReviews(ctx context.Context, storeID int64, page, size int) (*ReviewPage, error) {
	var result ReviewPage
	path := fmt.Sprintf("/stores/%d/reviews", storeID)
	if err := c.call(ctx, http.MethodGet, path, pageValues(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StoreReviewStats returns a store's review count and average rating.
func (c *Client) StoreReviewStats(ctx context.Context, storeID int64) (*ReviewStats, error) {
	var stats ReviewStats
	path := fmt.Sprintf("/stores/%d/reviews/stats", storeID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// MyReviews returns the caller's own reviews.
func (c *Client) MyReviews(ctx context.Context, page, size int) (*ReviewPage, error) {
	var result ReviewPage
	if err := c.call(ctx, http.MethodGet, "/reviews/my", pageValues(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReviewRequest carries a review create or update.
type ReviewRequest struct {
	OrderID  int64  `json:"orderId"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// CreateReview posts a review for a completed order.
func (c *Client) CreateReview(ctx context.Context, req ReviewRequest) (*Review, error) {
	var review Review
	if err := c.call(ctx, http.MethodPost, "/reviews", nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits one of the caller's reviews.
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, req ReviewRequest) (*Review, error) {
	var review Review
	path := fmt.Sprintf("/reviews/%d", reviewID)
	if err := c.call(ctx, http.MethodPut, path, nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes one of the caller's reviews.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	path := fmt.Sprintf("/reviews/%d", reviewID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
