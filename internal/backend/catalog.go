package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Store approval lifecycle, managed from the admin surface. Only approved
// stores appear in the public catalog.
const (
	StoreApprovalPending  = "PENDING"
	StoreApprovalApproved = "APPROVED"
	StoreApprovalRejected = "REJECTED"
)

// Store is a storefront as listed in the catalog.
type Store struct {
	ID             int64  `json:"storeId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RoadAddress    string `json:"roadAddress"`
	AddressDetail  string `json:"addressDetail"`
	PhoneNumber    string `json:"phoneNumber"`
	ImageURL       string `json:"imageUrl"`
	CategoryID     int64  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	ApprovalStatus string `json:"approvalStatus"`
}

// StorePage is one page of a store listing.
type StorePage struct {
	Content []Store `json:"content"`
	PageMeta
}

// Category is a store category.
type Category struct {
	ID   int64  `json:"categoryId"`
	Name string `json:"name"`
}

// MenuOption is a selectable add-on for a menu.
type MenuOption struct {
	ID    int64  `json:"menuOptionId"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Menu is a sellable item on a store's menu.
type Menu struct {
	ID          int64        `json:"menuId"`
	StoreID     int64        `json:"storeId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	ImageURL    string       `json:"imageUrl"`
	SoldOut     bool         `json:"soldOut"`
	Options     []MenuOption `json:"options"`
}

// ListQuery narrows and pages a catalog listing. Zero values are omitted.
type ListQuery struct {
	Keyword    string
	CategoryID int64
	Page       int
	Size       int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// ListStores returns a page of approved stores, optionally filtered by
// keyword or category.
func (c *Client) ListStores(ctx context.Context, q ListQuery) (*StorePage, error) {
	var page StorePage
	if err := c.call(ctx, http.MethodGet, "/stores", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetStore returns a single store by id.
func (c *Client) GetStore(ctx context.Context, storeID int64) (*Store, error) {
	var store Store
	path := fmt.Sprintf("/stores/%d", storeID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// ListCategories returns every store category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.call(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListMenus returns the menus of a store, options included.
func (c *Client) ListMenus(ctx context.Context, storeID int64) ([]Menu, error) {
	var menus []Menu
	path := fmt.Sprintf("/stores/%d/menus", storeID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// GetMenu returns a single menu with its options.
func (c *Client) GetMenu(ctx context.Context, menuID int64) (*Menu, error) {
	var menu Menu
	path := fmt.Sprintf("/menus/%d", menuID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// MenuRequest carries a menu create or update for the owner surface.
type MenuRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	SoldOut     bool   `json:"soldOut"`
}

func (c *Client) CreateMenu(ctx context.Context, storeID int64, req MenuRequest) (*Menu, error) {
	var menu Menu
	path := fmt.Sprintf("/stores/%d/menus", storeID)
	if err := c.call(ctx, http.MethodPost, path, nil, req, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (c *Client) UpdateMenu(ctx context.Context, menuID int64, req MenuRequest) (*Menu, error) {
	var menu Menu
	path := fmt.Sprintf("/menus/%d", menuID)
	if err := c.call(ctx, http.MethodPut, path, nil, req, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (c *Client) DeleteMenu(ctx context.Context, menuID int64) error {
	path := fmt.Sprintf("/menus/%d", menuID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// MenuOptionRequest carries a menu option create or update.
type MenuOptionRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (c *Client) CreateMenuOption(ctx context.Context, menuID int64, req MenuOptionRequest) (*MenuOption, error) {
	var option MenuOption
	path := fmt.Sprintf("/menus/%d/options", menuID)
	if err := c.call(ctx, http.MethodPost, path, nil, req, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

func (c *Client) DeleteMenuOption(ctx context.Context, menuID, optionID int64) error {
	path := fmt.Sprintf("/menus/%d/options/%d", menuID, optionID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
