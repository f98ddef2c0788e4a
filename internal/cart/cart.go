package cart

import (
	"sort"
	"strings"
)

// MenuOption is a selectable option on a menu. Options are price additive and
// order irrelevant: two selections with the same option set are the same line.
type MenuOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Menu is the subset of the catalog menu a cart line needs to render and
// price itself while offline from the backend.
type Menu struct {
	ID       string `json:"id"`
	StoreID  string `json:"storeId"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Item struct {
	Menu            Menu         `json:"menu"`
	Quantity        int          `json:"quantity"`
	SelectedOptions []MenuOption `json:"selectedOptions"`
}

// LineTotal is (menu price + option prices) × quantity.
func (i Item) LineTotal() int {
	total := i.Menu.Price
	for _, opt := range i.SelectedOptions {
		total += opt.Price
	}
	return total * i.Quantity
}

// optionKey canonicalizes the selected option set so merge identity ignores
// selection order.
func optionKey(options []MenuOption) string {
	ids := make([]string, 0, len(options))
	for _, opt := range options {
		ids = append(ids, opt.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// Cart holds the items for exactly one store. An empty cart does not exist:
// removing the last item collapses the cart to nil.
type Cart struct {
	StoreID   string `json:"storeId"`
	StoreName string `json:"storeName"`
	Items     []Item `json:"items"`
}

func (c *Cart) clone() *Cart {
	if c == nil {
		return nil
	}
	cp := &Cart{StoreID: c.StoreID, StoreName: c.StoreName}
	cp.Items = make([]Item, len(c.Items))
	for i, item := range c.Items {
		cp.Items[i] = item
		cp.Items[i].SelectedOptions = append([]MenuOption(nil), item.SelectedOptions...)
	}
	return cp
}
