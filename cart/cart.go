// Package cart implements the local shopping-cart store. The local cart is
// the source of truth for the UI: every mutation commits synchronously to
// durable storage and only then notifies the optional listener, so remote
// propagation can never roll local state back.
package cart

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pikacards/storefront/catalog"
	"github.com/pikacards/storefront/storage"
	"github.com/shopspring/decimal"
)

const cartRecordID = "current"

// Item is one cart line. At most one item per card ID.
type Item struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// Subtotal returns price × qty for the line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Listener observes committed cart mutations. Callbacks run after the local
// state and its durable record have been updated, outside the store's lock.
type Listener interface {
	ItemAdded(item Item)
	ItemRemoved(item Item)
	QuantityChanged(item Item, previousQty int)
}

// Store is the local cart store.
type Store struct {
	repo     storage.Repository
	logger   *slog.Logger
	listener Listener

	mu    sync.Mutex
	items []Item
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithListener registers a mutation listener, typically the remote syncer.
func WithListener(l Listener) StoreOption {
	return func(s *Store) {
		s.listener = l
	}
}

// NewStore creates a cart store and hydrates it from the repository.
// A missing or corrupt cart record hydrates as an empty cart.
func NewStore(repo storage.Repository, opts ...StoreOption) *Store {
	s := &Store{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.hydrate()
	return s
}

func (s *Store) hydrate() []Item {
	data, err := s.repo.Get(storage.RecordCart, cartRecordID)
	if err != nil {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Debug("discarding corrupt cart record", "error", err)
		return nil
	}
	return items
}

// persist re-serializes the whole cart. Called with the lock held. Local
// mutations never fail, so persistence problems are only logged.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("marshaling cart", "error", err)
		return
	}
	if err := s.repo.Put(storage.RecordCart, cartRecordID, data); err != nil {
		s.logger.Warn("persisting cart", "error", err)
	}
}

// Add puts one unit of the card in the cart: an existing line's quantity is
// incremented, otherwise a new line is created with quantity 1, using the
// catalog price-resolution and image policies.
func (s *Store) Add(card catalog.Card) Item {
	s.mu.Lock()
	var added Item
	if idx := s.indexOf(card.ID); idx >= 0 {
		s.items[idx].Qty++
		added = s.items[idx]
	} else {
		added = Item{
			ID:    card.ID,
			Name:  card.Name,
			Image: catalog.ImageFor(card),
			Qty:   1,
			Price: catalog.PriceFor(card),
		}
		s.items = append(s.items, added)
	}
	s.persist()
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.ItemAdded(added)
	}
	return added
}

// Remove deletes the line with the given card ID. No-op when absent.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist()
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.ItemRemoved(removed)
	}
}

// SetQuantity overwrites the line's quantity. A quantity of zero or less is
// equivalent to Remove. No-op when the line is absent.
func (s *Store) SetQuantity(id string, qty int) {
	if qty <= 0 {
		s.Remove(id)
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	prev := s.items[idx].Qty
	s.items[idx].Qty = qty
	changed := s.items[idx]
	s.persist()
	s.mu.Unlock()

	if prev != qty && s.listener != nil {
		s.listener.QuantityChanged(changed, prev)
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.persist()
	s.mu.Unlock()
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Total returns Σ(price × qty) over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count returns Σ(qty) over all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Qty
	}
	return count
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// indexOf returns the position of the line with the given ID, or -1.
// Caller holds the lock.
func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
