package cart

import (
	"errors"
	"sync"

	"github.com/appetiteclub/apt"

	"github.com/pickupclub/storefront/internal/snapshot"
)

const snapshotKey = "cart"

var (
	// ErrDifferentStore is returned when an item from another store is added
	// without the caller having confirmed the destructive replacement.
	ErrDifferentStore = errors.New("cart holds items from another store")
	ErrInvalidMenu    = errors.New("menu reference is invalid")
	ErrInvalidQty     = errors.New("quantity must be at least 1")
	// ErrCorrupted marks a cart whose persisted lines no longer reference a
	// valid menu. Recovery is a full reset, never a partial repair.
	ErrCorrupted = errors.New("cart data is corrupted")
)

// Store owns the single client-side cart and its persisted snapshot. Every
// mutation is written through synchronously.
type Store struct {
	mu        sync.Mutex
	cart      *Cart
	hydrated  bool
	snapshots *snapshot.Store
	logger    apt.Logger
}

func NewStore(snapshots *snapshot.Store, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{snapshots: snapshots, logger: logger}
}

// Hydrate loads the persisted cart. A structurally invalid record (schema
// mismatch, undecodable, or any line missing a menu id) discards the whole
// record rather than keeping a partially valid cart.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.hydrated = true }()

	var loaded Cart
	err := s.snapshots.Load(snapshotKey, &loaded)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("discarding unreadable cart snapshot", "error", err)
		_ = s.snapshots.Purge(snapshotKey)
		return
	}
	if len(loaded.Items) == 0 {
		_ = s.snapshots.Purge(snapshotKey)
		return
	}
	for _, item := range loaded.Items {
		if item.Menu.ID == "" || item.Quantity < 1 {
			s.logger.Error("discarding corrupted cart snapshot", "store_id", loaded.StoreID)
			_ = s.snapshots.Purge(snapshotKey)
			return
		}
	}
	s.cart = &loaded
}

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// AddItem merges the menu into the cart. Identity for merging is the pair
// (menu id, selected option set); a match increments quantity instead of
// appending a line. Adding from a different store fails with
// ErrDifferentStore and leaves the cart untouched; the caller clears the cart
// first once the user confirms the switch.
func (s *Store) AddItem(storeID, storeName string, menu Menu, quantity int, options []MenuOption) error {
	if storeID == "" || menu.ID == "" {
		return ErrInvalidMenu
	}
	if quantity < 1 {
		return ErrInvalidQty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart != nil && s.cart.StoreID != storeID {
		return ErrDifferentStore
	}

	item := Item{Menu: menu, Quantity: quantity, SelectedOptions: append([]MenuOption(nil), options...)}

	if s.cart == nil {
		s.cart = &Cart{StoreID: storeID, StoreName: storeName, Items: []Item{item}}
		return s.persist()
	}

	key := optionKey(options)
	for i := range s.cart.Items {
		existing := &s.cart.Items[i]
		if existing.Menu.ID == menu.ID && optionKey(existing.SelectedOptions) == key {
			existing.Quantity += quantity
			return s.persist()
		}
	}

	s.cart.Items = append(s.cart.Items, item)
	return s.persist()
}

// RemoveItem drops every line for the menu id. Removing the last line
// collapses the cart to nil and purges the persisted record.
func (s *Store) RemoveItem(menuID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(menuID)
}

func (s *Store) removeLocked(menuID string) error {
	if s.cart == nil {
		return nil
	}
	kept := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.Menu.ID != menuID {
			kept = append(kept, item)
		}
	}
	s.cart.Items = kept
	if len(s.cart.Items) == 0 {
		s.cart = nil
	}
	return s.persist()
}

// UpdateQuantity sets the quantity in place; zero or below delegates to
// removal.
func (s *Store) UpdateQuantity(menuID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(menuID)
	}
	if s.cart == nil {
		return nil
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].Menu.ID == menuID {
			s.cart.Items[i].Quantity = quantity
		}
	}
	return s.persist()
}

// Clear nils the cart and purges the persisted record so stale data cannot
// resurrect on the next hydration.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	return s.snapshots.Purge(snapshotKey)
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	total := 0
	for _, item := range s.cart.Items {
		total += item.LineTotal()
	}
	return total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	count := 0
	for _, item := range s.cart.Items {
		count += item.Quantity
	}
	return count
}

// Current returns a copy of the cart, or nil when empty.
func (s *Store) Current() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}

// Validate checks that every line still references a resolvable menu. A nil
// cart is valid; any line without a menu id means the whole cart is
// corrupted.
func (s *Store) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	for _, item := range s.cart.Items {
		if item.Menu.ID == "" {
			return ErrCorrupted
		}
	}
	return nil
}

func (s *Store) persist() error {
	if s.cart == nil {
		return s.snapshots.Purge(snapshotKey)
	}
	return s.snapshots.Save(snapshotKey, s.cart)
}
