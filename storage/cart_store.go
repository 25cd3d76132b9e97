package storage

import (
	"os"
	"sync"
	"time"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// cartsDoc is the on-disk shape of the carts file: one cart per session id.
type cartsDoc struct {
	Carts map[string]models.Cart `json:"carts"`
}

// CartStore owns the carts document. Existence, activity and stock checks
// against the catalog belong to the caller; the store only maintains the
// cart invariants (merge by product id, totals after every mutation).
type CartStore struct {
	mu   sync.Mutex
	file jsonFile
}

// NewCartStore creates a store backed by the JSON document at path.
func NewCartStore(path string) *CartStore {
	return &CartStore{file: jsonFile{path: path}}
}

func (s *CartStore) loadDoc() (cartsDoc, error) {
	var doc cartsDoc
	err := s.file.load(&doc)
	if err != nil && !os.IsNotExist(err) {
		return doc, apperrors.Wrap(apperrors.Storage, "Failed to read cart", err)
	}
	if doc.Carts == nil {
		doc.Carts = map[string]models.Cart{}
	}
	return doc, nil
}

func (s *CartStore) saveDoc(doc cartsDoc) error {
	if err := s.file.save(doc); err != nil {
		return apperrors.Wrap(apperrors.Storage, "Failed to write cart", err)
	}
	return nil
}

func emptyCart(cartID string) models.Cart {
	return models.Cart{
		ID:          cartID,
		Items:       []models.CartItem{},
		LastUpdated: time.Now().UTC(),
	}
}

// Get returns the cart for the session, or a fresh empty cart if none has
// been persisted yet.
func (s *CartStore) Get(cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Cart{}, err
	}
	if cart, ok := doc.Carts[cartID]; ok {
		return cart, nil
	}
	return emptyCart(cartID), nil
}

// AddItem merges the product into the cart: an existing line for the same
// product has its quantity incremented, a new line is appended otherwise.
// Either way the line re-snapshots title, author, image and unit price
// (discount price first) from the current product record, and the totals
// are recomputed.
func (s *CartStore) AddItem(cartID string, product models.Product, quantity int) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Cart{}, err
	}

	cart, ok := doc.Carts[cartID]
	if !ok {
		cart = emptyCart(cartID)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Title = product.Title
			cart.Items[i].Author = product.Author
			cart.Items[i].Price = product.UnitPrice()
			cart.Items[i].ImageURL = product.ImageURL
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Title:     product.Title,
			Author:    product.Author,
			Price:     product.UnitPrice(),
			ImageURL:  product.ImageURL,
			AddedAt:   time.Now().UTC(),
		})
	}

	cart.Recalculate()
	cart.LastUpdated = time.Now().UTC()
	doc.Carts[cartID] = cart

	if err := s.saveDoc(doc); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// RemoveItem drops every line matching the product id. Removing an absent
// product is a no-op, not an error.
func (s *CartStore) RemoveItem(cartID string, productID int) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Cart{}, err
	}

	cart, ok := doc.Carts[cartID]
	if !ok {
		cart = emptyCart(cartID)
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	cart.Recalculate()
	cart.LastUpdated = time.Now().UTC()
	doc.Carts[cartID] = cart

	if err := s.saveDoc(doc); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// Clear empties the cart and zeroes its totals.
func (s *CartStore) Clear(cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Cart{}, err
	}

	cart := emptyCart(cartID)
	doc.Carts[cartID] = cart

	if err := s.saveDoc(doc); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}
