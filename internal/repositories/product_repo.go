package repositories

import (
	"tienda/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// FindAll treats a negative limit as "no bound". Update persists the merged
// product and, when replaceImages is true, swaps the whole image collection
// for product.Images inside the same transaction; when false the stored
// collection is left untouched.
type ProductRepository interface {
	FindAll(limit, offset int) ([]models.Product, error)
	FindByID(id string) (*models.Product, error)
	FindByNaturalKey(term string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product, replaceImages bool) error
	Delete(id string) error
	DeleteAll() error
	ImagesForProduct(productID string) ([]models.ProductImage, error)
}
