package repositories

import (
	"strings"
	"sync"

	"tienda/internal/apperr"
	"tienda/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the store contract closely enough to run the app without a
// database: insertion order, slug normalization, and replace-all image
// semantics all behave as the GORM implementation does.
type MockProductRepository struct {
	products []models.Product
	nextImg  uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{}
}

// FindAll returns a page of products in insertion order.
func (r *MockProductRepository) FindAll(limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.products) {
		return []models.Product{}, nil
	}
	end := len(r.products)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	page := make([]models.Product, end-offset)
	copy(page, r.products[offset:end])
	return page, nil
}

// FindByID returns a product by its ID.
func (r *MockProductRepository) FindByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].ID == id {
			product := r.products[i]
			return &product, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "product with id %s not found", id)
}

// FindByNaturalKey matches by upper-cased title or lower-cased slug.
func (r *MockProductRepository) FindByNaturalKey(term string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	upper := strings.ToUpper(term)
	lower := strings.ToLower(term)
	for i := range r.products {
		if strings.ToUpper(r.products[i].Title) == upper || r.products[i].Slug == lower {
			product := r.products[i]
			return &product, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "product with id %s not found", term)
}

// Create appends a new product, assigning IDs and normalizing the slug.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Slug == "" {
		product.Slug = product.Title
	}
	product.Slug = models.NormalizeSlug(product.Slug)
	for i := range r.products {
		if r.products[i].Title == product.Title || r.products[i].Slug == product.Slug {
			return apperr.New(apperr.KindConflict, "product title or slug already exists")
		}
	}
	for i := range product.Images {
		r.nextImg++
		product.Images[i].ID = r.nextImg
		product.Images[i].ProductID = product.ID
	}
	r.products = append(r.products, *product)
	return nil
}

// Update replaces the stored product; when replaceImages is set the image
// collection is swapped for product.Images, otherwise it is kept as is.
func (r *MockProductRepository) Update(product *models.Product, replaceImages bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.Slug == "" {
		product.Slug = product.Title
	}
	product.Slug = models.NormalizeSlug(product.Slug)
	for i := range r.products {
		if r.products[i].ID != product.ID {
			continue
		}
		if replaceImages {
			for j := range product.Images {
				r.nextImg++
				product.Images[j].ID = r.nextImg
				product.Images[j].ProductID = product.ID
			}
		} else {
			product.Images = r.products[i].Images
		}
		r.products[i] = *product
		return nil
	}
	return apperr.New(apperr.KindNotFound, "product with id %s not found for update", product.ID)
}

// Delete removes a product and its images.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "product with id %s not found for deletion", id)
}

// DeleteAll removes every product.
func (r *MockProductRepository) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = nil
	return nil
}

// ImagesForProduct returns the images owned by a product in stored order.
func (r *MockProductRepository) ImagesForProduct(productID string) ([]models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].ID == productID {
			images := make([]models.ProductImage, len(r.products[i].Images))
			copy(images, r.products[i].Images)
			return images, nil
		}
	}
	return []models.ProductImage{}, nil
}
