package storage

import (
	"os"
	"sync"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// ordersDoc is the on-disk shape of the orders file.
type ordersDoc struct {
	Orders []models.Order `json:"orders"`
}

// OrderStore records confirmed orders. Looking an order up by its payment
// session id is what makes confirmation idempotent.
type OrderStore struct {
	mu   sync.Mutex
	file jsonFile
}

// NewOrderStore creates a store backed by the JSON document at path.
func NewOrderStore(path string) *OrderStore {
	return &OrderStore{file: jsonFile{path: path}}
}

func (s *OrderStore) loadDoc() (ordersDoc, error) {
	var doc ordersDoc
	err := s.file.load(&doc)
	if err != nil && !os.IsNotExist(err) {
		return doc, apperrors.Wrap(apperrors.Storage, "Failed to read orders", err)
	}
	return doc, nil
}

// FindBySession returns the order confirmed for the given payment session,
// if any.
func (s *OrderStore) FindBySession(sessionID string) (models.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Order{}, false, err
	}
	for _, o := range doc.Orders {
		if o.SessionID == sessionID {
			return o, true, nil
		}
	}
	return models.Order{}, false, nil
}

// Append persists a newly confirmed order.
func (s *OrderStore) Append(order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return err
	}
	doc.Orders = append(doc.Orders, order)
	if err := s.file.save(doc); err != nil {
		return apperrors.Wrap(apperrors.Storage, "Failed to write orders", err)
	}
	return nil
}
