package storage

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

const lowStockThreshold = 10

// CatalogFilter narrows the public storefront listing.
type CatalogFilter struct {
	Category string
	Search   string
	Sort     string // price_asc, price_desc, title_asc, title_desc
}

// AdminQuery narrows, sorts and paginates the admin listing.
type AdminQuery struct {
	Category  string
	Search    string
	Status    string // all, active, inactive
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc, desc
}

// Pagination describes the returned page of an admin listing.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalProducts   int  `json:"totalProducts"`
	ProductsPerPage int  `json:"productsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPrevPage     bool `json:"hasPrevPage"`
}

// Statistics aggregates stock and activity counts over the full catalog.
type Statistics struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Inactive   int `json:"inactive"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// AdminListing is one page of the admin catalog view.
type AdminListing struct {
	Products   []models.Product
	Pagination Pagination
	Statistics Statistics
}

// productsDoc is the on-disk shape of the catalog file. NextID is a
// monotonic counter so identifiers are never reused after a hard delete;
// legacy files without the field are seeded from max(id)+1 on first load.
type productsDoc struct {
	NextID   int              `json:"nextId"`
	Products []models.Product `json:"products"`
}

// ProductStore owns the product collection. All operations serialize on
// the store mutex, which also makes the collator safe to share.
type ProductStore struct {
	mu       sync.Mutex
	file     jsonFile
	log      *zap.Logger
	collator *collate.Collator
}

// NewProductStore creates a store backed by the JSON document at path.
func NewProductStore(path string, log *zap.Logger) *ProductStore {
	return &ProductStore{
		file:     jsonFile{path: path},
		log:      log,
		collator: collate.New(language.Romanian),
	}
}

func (s *ProductStore) loadDoc() (productsDoc, error) {
	var doc productsDoc
	err := s.file.load(&doc)
	if err != nil && !os.IsNotExist(err) {
		return doc, apperrors.Wrap(apperrors.Storage, "Failed to read catalog", err)
	}
	if doc.NextID == 0 {
		doc.NextID = 1
		for _, p := range doc.Products {
			if p.ID >= doc.NextID {
				doc.NextID = p.ID + 1
			}
		}
	}
	return doc, nil
}

func (s *ProductStore) saveDoc(doc productsDoc) error {
	if err := s.file.save(doc); err != nil {
		return apperrors.Wrap(apperrors.Storage, "Failed to write catalog", err)
	}
	return nil
}

// ListActive returns the active products matching the filter, in the
// requested order.
func (s *ProductStore) ListActive(filter CatalogFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Title), q) &&
				!strings.Contains(strings.ToLower(p.Author), q) {
				continue
			}
		}
		products = append(products, p)
	}

	switch filter.Sort {
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "title_asc":
		sort.SliceStable(products, func(i, j int) bool {
			return s.collator.CompareString(products[i].Title, products[j].Title) < 0
		})
	case "title_desc":
		sort.SliceStable(products, func(i, j int) bool {
			return s.collator.CompareString(products[i].Title, products[j].Title) > 0
		})
	}

	return products, nil
}

// ListAdmin returns one page of the full catalog, active and inactive,
// with aggregate statistics computed over the filtered set.
func (s *ProductStore) ListAdmin(q AdminQuery) (AdminListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return AdminListing{}, err
	}

	products := make([]models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		switch q.Status {
		case "active":
			if !p.IsActive {
				continue
			}
		case "inactive":
			if p.IsActive {
				continue
			}
		}
		if q.Category != "" && q.Category != "all" {
			if !strings.Contains(strings.ToLower(p.Category), strings.ToLower(q.Category)) {
				continue
			}
		}
		if q.Search != "" {
			lower := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), lower) &&
				!strings.Contains(strings.ToLower(p.Author), lower) &&
				!strings.Contains(p.ISBN, q.Search) {
				continue
			}
		}
		products = append(products, p)
	}

	s.sortAdmin(products, q.SortBy, q.SortOrder)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	total := len(products)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit

	stats := Statistics{Total: total}
	for _, p := range products {
		if p.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if p.Stock == 0 {
			stats.OutOfStock++
		} else if p.Stock < lowStockThreshold {
			stats.LowStock++
		}
	}

	return AdminListing{
		Products: products[start:end],
		Pagination: Pagination{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalProducts:   total,
			ProductsPerPage: limit,
			HasNextPage:     end < total,
			HasPrevPage:     start > 0,
		},
		Statistics: stats,
	}, nil
}

// sortAdmin dispatches by field type: known string fields use locale
// comparison, known numeric fields numeric difference with nil treated as
// zero, anything else sorts by timestamp with missing values at the epoch.
func (s *ProductStore) sortAdmin(products []models.Product, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	asc := sortOrder == "asc"

	strKey := map[string]func(models.Product) string{
		"title":    func(p models.Product) string { return p.Title },
		"author":   func(p models.Product) string { return p.Author },
		"category": func(p models.Product) string { return p.Category },
	}
	numKey := map[string]func(models.Product) float64{
		"price": func(p models.Product) float64 { return p.Price },
		"stock": func(p models.Product) float64 { return float64(p.Stock) },
		"rating": func(p models.Product) float64 {
			if p.Rating == nil {
				return 0
			}
			return *p.Rating
		},
	}

	var less func(a, b models.Product) bool
	switch {
	case strKey[sortBy] != nil:
		key := strKey[sortBy]
		less = func(a, b models.Product) bool { return s.collator.CompareString(key(a), key(b)) < 0 }
	case numKey[sortBy] != nil:
		key := numKey[sortBy]
		less = func(a, b models.Product) bool { return key(a) < key(b) }
	default:
		key := func(p models.Product) time.Time {
			if sortBy == "updatedAt" {
				return p.UpdatedAt
			}
			return p.CreatedAt
		}
		less = func(a, b models.Product) bool { return key(a).Before(key(b)) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		if asc {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}

// GetByID returns a single product, active or not.
func (s *ProductStore) GetByID(id int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range doc.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, apperrors.New(apperrors.NotFound, "Product not found")
}

// Create validates and normalizes the input, assigns the next identifier
// from the persisted counter, and appends the product to the catalog.
func (s *ProductStore) Create(input models.ProductInput, creatorID string) (models.Product, error) {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Author) == "" {
		missing = append(missing, "author")
	}
	if input.Price == nil {
		missing = append(missing, "price")
	}
	if input.Stock == nil {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		return models.Product{}, apperrors.New(apperrors.Validation,
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	if *input.Price < 0 {
		return models.Product{}, apperrors.New(apperrors.Validation, "Price cannot be negative")
	}
	if *input.Stock < 0 {
		return models.Product{}, apperrors.New(apperrors.Validation, "Stock cannot be negative")
	}
	if input.DiscountPrice != nil && *input.DiscountPrice > *input.Price {
		return models.Product{}, apperrors.New(apperrors.Validation,
			"Discount price cannot exceed the original price")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Product{}, err
	}

	now := time.Now().UTC()
	product := models.Product{
		ID:            doc.NextID,
		Title:         strings.TrimSpace(input.Title),
		Author:        strings.TrimSpace(input.Author),
		ISBN:          strings.TrimSpace(input.ISBN),
		Category:      "General",
		Price:         *input.Price,
		DiscountPrice: input.DiscountPrice,
		Description:   strings.TrimSpace(input.Description),
		ImageURL:      "/images/default-book.jpg",
		Stock:         *input.Stock,
		IsActive:      true,
		Featured:      input.Featured,
		Rating:        input.Rating,
		Tags:          []string{},
		Specifications: models.Specifications{
			Pages:     input.Pages,
			Language:  "Romanian",
			Publisher: strings.TrimSpace(input.Publisher),
			Year:      input.Year,
			Format:    "Paperback",
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: creatorID,
	}
	if c := strings.TrimSpace(input.Category); c != "" {
		product.Category = c
	}
	if u := strings.TrimSpace(input.ImageURL); u != "" {
		product.ImageURL = u
	}
	if input.ReviewCount != nil {
		product.ReviewCount = *input.ReviewCount
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}

	doc.Products = append(doc.Products, product)
	doc.NextID++
	if err := s.saveDoc(doc); err != nil {
		return models.Product{}, err
	}

	s.log.Info("product created",
		zap.Int("id", product.ID),
		zap.String("title", product.Title))
	return product, nil
}

// Update shallow-merges the given fields into the existing record and
// stamps the update time. The identifier itself is not updatable. Field
// values are not re-validated, matching the create/update asymmetry of
// the original design.
func (s *ProductStore) Update(id int, fields map[string]any) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return models.Product{}, err
	}

	idx := -1
	for i, p := range doc.Products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Product{}, apperrors.New(apperrors.NotFound, "Product not found")
	}

	merged, err := mergeProduct(doc.Products[idx], fields)
	if err != nil {
		return models.Product{}, err
	}
	merged.ID = id
	merged.UpdatedAt = time.Now().UTC()
	doc.Products[idx] = merged

	if err := s.saveDoc(doc); err != nil {
		return models.Product{}, err
	}
	return merged, nil
}

// mergeProduct overlays raw JSON fields onto an existing record by going
// through the product's own JSON representation.
func mergeProduct(existing models.Product, fields map[string]any) (models.Product, error) {
	base, err := json.Marshal(existing)
	if err != nil {
		return models.Product{}, apperrors.Wrap(apperrors.Storage, "Failed to merge product", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(base, &raw); err != nil {
		return models.Product{}, apperrors.Wrap(apperrors.Storage, "Failed to merge product", err)
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		raw[k] = v
	}
	mergedJSON, err := json.Marshal(raw)
	if err != nil {
		return models.Product{}, apperrors.Wrap(apperrors.Storage, "Failed to merge product", err)
	}
	var merged models.Product
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return models.Product{}, apperrors.Wrap(apperrors.Validation, "Invalid field value", err)
	}
	return merged, nil
}

// Deactivate soft-deletes a product, or removes it entirely when permanent.
func (s *ProductStore) Deactivate(id int, permanent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return err
	}

	idx := -1
	for i, p := range doc.Products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperrors.New(apperrors.NotFound, "Product not found")
	}

	if permanent {
		doc.Products = append(doc.Products[:idx], doc.Products[idx+1:]...)
	} else {
		doc.Products[idx].IsActive = false
		doc.Products[idx].UpdatedAt = time.Now().UTC()
	}

	if err := s.saveDoc(doc); err != nil {
		return err
	}
	s.log.Info("product deactivated", zap.Int("id", id), zap.Bool("permanent", permanent))
	return nil
}

// DecrementStock subtracts the confirmed quantities in one serialized
// write. Stock floors at zero: by confirmation time the payment has
// settled, so an oversell is logged rather than failed.
func (s *ProductStore) DecrementStock(items []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadDoc()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, item := range items {
		for i := range doc.Products {
			if doc.Products[i].ID != item.ProductID {
				continue
			}
			remaining := doc.Products[i].Stock - item.Quantity
			if remaining < 0 {
				s.log.Warn("stock oversold at confirmation",
					zap.Int("productId", item.ProductID),
					zap.Int("stock", doc.Products[i].Stock),
					zap.Int("quantity", item.Quantity))
				remaining = 0
			}
			doc.Products[i].Stock = remaining
			doc.Products[i].UpdatedAt = now
			break
		}
	}

	return s.saveDoc(doc)
}
