// Package session holds vendor working state: identity, customer selection,
// discount and cart lines. Sessions are client-local data; they are persisted
// only to the fallback store and passed explicitly to whoever needs them.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pos-service/internal/localstore"
	"pos-service/internal/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns all live sessions and keeps them mirrored to the local store
type Manager struct {
	local *localstore.Store

	mu       sync.Mutex
	sessions map[string]*models.Session
}

// NewManager creates a manager and restores persisted sessions
func NewManager(local *localstore.Store) (*Manager, error) {
	m := &Manager{
		local:    local,
		sessions: make(map[string]*models.Session),
	}

	var saved []models.Session
	if err := local.Load(localstore.KeySessions, &saved); err != nil {
		return nil, fmt.Errorf("failed to restore sessions: %w", err)
	}
	for i := range saved {
		s := saved[i]
		m.sessions[s.ID] = &s
	}
	return m, nil
}

// Start opens a new session for a vendor. The vendor name is just a typed
// name, there is no credential behind it.
func (m *Manager) Start(vendorName string) (*models.Session, error) {
	if vendorName == "" {
		return nil, errors.New("vendor name must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &models.Session{
		ID:         uuid.New().String(),
		VendorName: vendorName,
		Lines:      []models.CartLine{},
		UpdatedAt:  time.Now(),
	}
	m.sessions[sess.ID] = sess

	if err := m.persistLocked(); err != nil {
		delete(m.sessions, sess.ID)
		return nil, err
	}
	return copySession(sess), nil
}

// Get returns a copy of a session
func (m *Manager) Get(sessionID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

// End removes a session entirely
func (m *Manager) End(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return m.persistLocked()
}

// SetCustomer records the customer selection for checkout
func (m *Manager) SetCustomer(sessionID, name, address string) (*models.Session, error) {
	return m.mutate(sessionID, func(sess *models.Session) error {
		sess.CustomerName = name
		sess.CustomerAddress = address
		return nil
	})
}

// SetDiscount records the discount percentage applied at checkout
func (m *Manager) SetDiscount(sessionID string, discount int) (*models.Session, error) {
	return m.mutate(sessionID, func(sess *models.Session) error {
		if discount < 0 || discount > 100 {
			return fmt.Errorf("discount out of range: %d", discount)
		}
		sess.Discount = discount
		return nil
	})
}

// AddLine merges a product snapshot into the cart
func (m *Manager) AddLine(sessionID string, line models.CartLine) (*models.Session, error) {
	return m.mutate(sessionID, func(sess *models.Session) error {
		if line.Quantity < 1 {
			return fmt.Errorf("quantity must be at least 1: %d", line.Quantity)
		}
		for i := range sess.Lines {
			if sess.Lines[i].ProductID == line.ProductID {
				sess.Lines[i].Quantity += line.Quantity
				return nil
			}
		}
		sess.Lines = append(sess.Lines, line)
		return nil
	})
}

// RemoveLine drops a cart line and reports the quantity it held
func (m *Manager) RemoveLine(sessionID string, productID int64) (int, error) {
	removed := 0
	_, err := m.mutate(sessionID, func(sess *models.Session) error {
		for i := range sess.Lines {
			if sess.Lines[i].ProductID == productID {
				removed = sess.Lines[i].Quantity
				sess.Lines = append(sess.Lines[:i], sess.Lines[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("product %d not in cart", productID)
	})
	return removed, err
}

// SetLineQuantity changes a line's quantity and reports the previous one
func (m *Manager) SetLineQuantity(sessionID string, productID int64, quantity int) (int, error) {
	previous := 0
	_, err := m.mutate(sessionID, func(sess *models.Session) error {
		if quantity < 1 {
			return fmt.Errorf("quantity must be at least 1: %d", quantity)
		}
		for i := range sess.Lines {
			if sess.Lines[i].ProductID == productID {
				previous = sess.Lines[i].Quantity
				sess.Lines[i].Quantity = quantity
				return nil
			}
		}
		return fmt.Errorf("product %d not in cart", productID)
	})
	return previous, err
}

// ClearCart empties the cart and resets the discount, reporting the lines it
// held. The caller decides whether the stock behind them goes back to the
// pool (abandon) or stays spent (checkout).
func (m *Manager) ClearCart(sessionID string) ([]models.CartLine, error) {
	var cleared []models.CartLine
	_, err := m.mutate(sessionID, func(sess *models.Session) error {
		cleared = append([]models.CartLine(nil), sess.Lines...)
		sess.Lines = []models.CartLine{}
		sess.Discount = 0
		return nil
	})
	return cleared, err
}

func (m *Manager) mutate(sessionID string, fn func(*models.Session) error) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now()

	if err := m.persistLocked(); err != nil {
		return nil, err
	}
	return copySession(sess), nil
}

func (m *Manager) persistLocked() error {
	all := make([]models.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		all = append(all, *copySession(sess))
	}
	return m.local.Save(localstore.KeySessions, all)
}

func copySession(sess *models.Session) *models.Session {
	cp := *sess
	cp.Lines = append([]models.CartLine(nil), sess.Lines...)
	return &cp
}
