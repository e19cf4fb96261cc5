// Package stubapi is a local stand-in for the Hunter Xpress backend. It
// speaks the same wire contract as the hosted service (auth envelopes,
// delivery orders, bearer tokens) so the client can be developed and tested
// without network access. State lives in memory and dies with the process.
package stubapi

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

// account is a registered user plus their bcrypt password hash.
type account struct {
	User         domain.User
	PasswordHash string
}

// memoryStore holds all stub state behind one mutex.
type memoryStore struct {
	mu         sync.Mutex
	accounts   map[string]*account      // keyed by user ID
	orders     map[string]*domain.Order // keyed by order reference
	orderOwner map[string]string        // order reference -> user ID
	idem       map[string]string        // idempotency key -> order reference
	nextID     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:   make(map[string]*account),
		orders:     make(map[string]*domain.Order),
		orderOwner: make(map[string]string),
		idem:       make(map[string]string),
	}
}

func (m *memoryStore) createAccount(user domain.User, password string) (*account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.accounts {
		if matchesIdentifier(acc.User, user.Email) || (user.Phone != "" && matchesIdentifier(acc.User, user.Phone)) {
			return nil, domain.ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	m.nextID++
	user.ID = userID(m.nextID)
	acc := &account{User: user, PasswordHash: string(hash)}
	m.accounts[user.ID] = acc
	return acc, nil
}

// findByIdentifier resolves a login identifier, which may be an email address
// or a phone number.
func (m *memoryStore) findByIdentifier(identifier string) (*account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.accounts {
		if matchesIdentifier(acc.User, identifier) {
			return acc, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryStore) saveOrder(userID string, order *domain.Order, idempotencyKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[order.OrderReference] = order
	m.orderOwner[order.OrderReference] = userID
	if idempotencyKey != "" {
		m.idem[idempotencyKey] = order.OrderReference
	}
}

// orderByIdempotencyKey returns a previously created order for a replayed
// submission, or nil for a fresh key.
func (m *memoryStore) orderByIdempotencyKey(key string) *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key == "" {
		return nil
	}
	ref, ok := m.idem[key]
	if !ok {
		return nil
	}
	return m.orders[ref]
}

func (m *memoryStore) ordersForUser(userID string) []*domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Order
	for ref, owner := range m.orderOwner {
		if owner == userID {
			out = append(out, m.orders[ref])
		}
	}
	return out
}

func matchesIdentifier(u domain.User, identifier string) bool {
	if identifier == "" {
		return false
	}
	return strings.EqualFold(u.Email, identifier) || u.Phone == identifier
}

func userID(n int) string {
	// Stable, readable IDs keep stub logs and tests easy to follow.
	return "u" + strconv.Itoa(n)
}
