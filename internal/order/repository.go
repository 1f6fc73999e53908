package order

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrExists   = errors.New("order id already exists")
	// ErrUnavailable means the order store collaborator is not configured
	// or cannot be reached.
	ErrUnavailable = errors.New("order store unavailable")
)

// Repository defines persistence operations for orders. Lookups use the
// business identifier, never a storage-internal key.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(orderID string) (Order, error)
	// UpdateStatus overwrites the status of an existing order. It must
	// report ErrNotFound for an unknown id and never create a record.
	UpdateStatus(orderID string, status Status) error
	// List returns orders newest-first by creation time, optionally
	// filtered by status (empty status means all).
	List(status Status) ([]Order, error)
}

// InMemoryRepository is used for tests and for running without a configured
// order store backend.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make([]Order, 0)}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderID == ord.OrderID {
			return Order{}, ErrExists
		}
	}
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(orderID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.orders {
		if ord.OrderID == orderID {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(orderID string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			r.orders[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) List(status Status) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		if status != "" && ord.Status != status {
			continue
		}
		out = append(out, ord)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// UnconfiguredRepository is the backend used when neither a database nor the
// spreadsheet order store is configured. Reads degrade to "nothing there",
// writes fail loudly.
type UnconfiguredRepository struct{}

func (UnconfiguredRepository) Create(Order) (Order, error)     { return Order{}, ErrUnavailable }
func (UnconfiguredRepository) GetByID(string) (Order, error)   { return Order{}, ErrUnavailable }
func (UnconfiguredRepository) UpdateStatus(string, Status) error { return ErrUnavailable }
func (UnconfiguredRepository) List(Status) ([]Order, error)    { return nil, ErrUnavailable }
