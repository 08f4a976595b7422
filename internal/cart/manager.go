// Package cart keeps the shopping cart: an ordered list of barrel lines
// mirrored to the device store after every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/millesime/barrels/internal/logger"
	"github.com/millesime/barrels/internal/storage"
	"github.com/millesime/barrels/pkg/domain"
)

// Persisted keys.
const (
	KeyItems = "cart_items"
	KeySaved = "cart_saved"
)

// CheckoutPath is where Checkout sends the user.
const CheckoutPath = "/checkout"

// ErrInvalidQuantity is returned by Add for quantities below one.
var ErrInvalidQuantity = errors.New("cart: quantity must be positive")

// Navigator sends the user to a page of the shop.
type Navigator interface {
	Navigate(path string) error
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) error { return nil }

// Manager owns the cart lines and the cart panel flag.
type Manager struct {
	store  storage.Store
	nav    Navigator
	dl     Downloader
	logger *logger.Logger
	newID  func() string

	mu    sync.Mutex
	items []domain.CartItem
	open  bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore sets the persistence store. Without one, persistence is a no-op.
func WithStore(s storage.Store) Option {
	return func(m *Manager) {
		m.store = storage.OrNop(s)
	}
}

// WithNavigator sets where Checkout sends the user.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) {
		if n != nil {
			m.nav = n
		}
	}
}

// WithDownloader sets how exports are delivered.
func WithDownloader(d Downloader) Option {
	return func(m *Manager) {
		if d != nil {
			m.dl = d
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		m.logger = logger.OrNop(l)
	}
}

// WithIDGenerator overrides how new line IDs are made.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager returns an empty, closed cart. Call Load to pick up the
// persisted lines.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		store:  storage.Nop{},
		nav:    nopNavigator{},
		dl:     DirDownloader{Dir: "."},
		logger: logger.NewNop(),
		newID:  newItemID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newItemID() string {
	return "cart_" + uuid.NewString()
}

// Load replaces the lines with the persisted list. Unreadable data is
// discarded and leaves the cart empty.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	raw, err := m.store.Get(ctx, KeyItems)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("read cart failed", "error", err)
		}
		return
	}
	items, err := decodeItems(raw)
	if err != nil {
		m.logger.Warn("discarding corrupt cart", "error", err)
		if err := m.store.Delete(ctx, KeyItems); err != nil {
			m.logger.Warn("delete cart failed", "error", err)
		}
		return
	}
	m.items = items
}

// Items returns a copy of the lines in insertion order.
func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Len returns the number of distinct lines.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Add puts quantity units of item in the cart. A line for the same barrel
// is incremented; otherwise a new line is appended with a fresh ID.
func (m *Manager) Add(ctx context.Context, item domain.CartItem, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOfBarrel(item.BarrelID); i >= 0 {
		m.items[i].Quantity += quantity
	} else {
		item.ID = m.newID()
		item.Quantity = quantity
		m.items = append(m.items, item)
	}
	m.persist(ctx)
	return nil
}

// UpdateQuantity sets the quantity of line id. Zero or less removes the
// line. It reports whether the line exists.
func (m *Manager) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	if quantity <= 0 {
		return m.Remove(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.items[i].Quantity = quantity
	m.persist(ctx)
	return true
}

// Remove drops line id. It reports whether the line existed.
func (m *Manager) Remove(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.persist(ctx)
	return true
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.persist(ctx)
}

// InCart reports whether the cart holds barrelID.
func (m *Manager) InCart(barrelID string) bool {
	return m.QuantityOf(barrelID) > 0
}

// QuantityOf returns how many units of barrelID are in the cart.
func (m *Manager) QuantityOf(barrelID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOfBarrel(barrelID); i >= 0 {
		return m.items[i].Quantity
	}
	return 0
}

// ItemCount is the total number of units across lines.
func (m *Manager) ItemCount() int {
	return m.Summary().ItemCount
}

// Subtotal is the sum of line totals before shipping and tax.
func (m *Manager) Subtotal() float64 {
	return m.Summary().Subtotal
}

// Summary computes the cart totals.
func (m *Manager) Summary() domain.CartSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return summarize(m.items)
}

func summarize(items []domain.CartItem) domain.CartSummary {
	var s domain.CartSummary
	for _, it := range items {
		s.Subtotal += it.LineTotal()
		s.ItemCount += it.Quantity
	}
	s.Shipping = Shipping(s.Subtotal)
	s.Tax = Tax(s.Subtotal)
	s.Total = s.Subtotal + s.Shipping + s.Tax
	return s
}

// ApplyPromo evaluates code against the current subtotal. The cart itself
// is not changed.
func (m *Manager) ApplyPromo(code string) domain.PromoResult {
	return evalPromo(code, m.Subtotal())
}

// Checkout sends the user to the checkout page and closes the panel. An
// empty cart does nothing.
func (m *Manager) Checkout(ctx context.Context) error {
	if m.Len() == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.nav.Navigate(CheckoutPath); err != nil {
		return fmt.Errorf("cart.Checkout: %w", err)
	}
	m.Close()
	return nil
}

// Open shows the cart panel.
func (m *Manager) Open() {
	m.setOpen(true)
}

// Close hides the cart panel.
func (m *Manager) Close() {
	m.setOpen(false)
}

// Toggle flips the cart panel.
func (m *Manager) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = !m.open
}

// IsOpen reports whether the cart panel is shown.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *Manager) setOpen(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = v
}

// CSV renders the cart as export text.
func (m *Manager) CSV() string {
	return encodeCSV(m.Items())
}

// Export delivers the cart in format. Only csv produces a file; pdf is
// accepted and logged.
func (m *Manager) Export(ctx context.Context, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		if err := m.dl.Download(ExportFilename, []byte(m.CSV())); err != nil {
			return fmt.Errorf("cart.Export: %w", err)
		}
		m.logger.Debug("cart exported", "file", ExportFilename, "lines", m.Len())
		return nil
	case FormatPDF:
		m.logger.Info("pdf export is not implemented")
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportPath returns where a csv export is delivered. Downloaders that do
// not expose a location report the bare filename.
func (m *Manager) ExportPath() string {
	if p, ok := m.dl.(interface{ Path(string) string }); ok {
		return p.Path(ExportFilename)
	}
	return ExportFilename
}

func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.items, func(it domain.CartItem) bool { return it.ID == id })
}

func (m *Manager) indexOfBarrel(barrelID string) int {
	return slices.IndexFunc(m.items, func(it domain.CartItem) bool { return it.BarrelID == barrelID })
}

// persist writes the full list. Callers hold mu.
func (m *Manager) persist(ctx context.Context) {
	data, err := encodeItems(m.items)
	if err != nil {
		m.logger.Warn("encode cart failed", "error", err)
		return
	}
	if err := m.store.Set(ctx, KeyItems, data); err != nil {
		m.logger.Warn("persist cart failed", "error", err)
	}
}

func encodeItems(items []domain.CartItem) (string, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeItems parses a persisted list, dropping lines without a positive
// quantity.
func decodeItems(raw string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(items, func(it domain.CartItem) bool { return it.Quantity <= 0 }), nil
}
