package repositories

import (
	"errors"
	"fmt"
	"strings"

	"tienda/internal/apperr"
	"tienda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It relies on gorm.Config{TranslateError: true} so unique-constraint
// violations surface as gorm.ErrDuplicatedKey on every driver.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// withImages attaches an ordered eager load of the image collection. Images
// are keyed by an autoincrement ID, so ascending ID is insertion order.
func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_images.id ASC")
	})
}

// FindAll retrieves a page of products in insertion order, images attached.
// A negative limit means no bound.
func (r *GORMProductRepository) FindAll(limit, offset int) ([]models.Product, error) {
	products := []models.Product{}
	query := withImages(r.db).Order("created_at ASC, id ASC")
	if limit >= 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to list products")
	}
	return products, nil
}

// FindByID retrieves a single product by its ID, images attached.
func (r *GORMProductRepository) FindByID(id string) (*models.Product, error) {
	var product models.Product
	if err := withImages(r.db).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "product with id %s not found", id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to get product by id %s", id)
	}
	return &product, nil
}

// FindByNaturalKey matches a product whose title equals the upper-cased term
// or whose slug equals the lower-cased term, in one OR-predicate query.
// Unique indexes on title and slug keep the two branches from selecting
// different rows.
func (r *GORMProductRepository) FindByNaturalKey(term string) (*models.Product, error) {
	var product models.Product
	err := withImages(r.db).
		Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "product with id %s not found", term)
		}
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to get product by term %s", term)
	}
	return &product, nil
}

// Create persists a product and its image rows as one atomic unit. Images
// are inserted in slice order so their keys reproduce the supplied order.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(product).Error
	})
	if err != nil {
		return classifyWriteError(err, "failed to create product")
	}
	return nil
}

// Update saves the merged product inside a single transaction. When
// replaceImages is set the existing image collection is deleted first and
// the rows in product.Images are inserted in order; any failure rolls the
// whole unit back, old images included.
func (r *GORMProductRepository) Update(product *models.Product, replaceImages bool) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if replaceImages {
			if err := tx.Where("product_id = ?", product.ID).
				Delete(&models.ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete old images: %w", err)
			}
		}
		result := tx.Omit("Images").Save(product)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.New(apperr.KindNotFound, "product with id %s not found for update", product.ID)
		}
		if replaceImages && len(product.Images) > 0 {
			for i := range product.Images {
				product.Images[i].ID = 0
				product.Images[i].ProductID = product.ID
			}
			if err := tx.Create(&product.Images).Error; err != nil {
				return fmt.Errorf("failed to insert new images: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return classifyWriteError(err, "failed to update product")
	}
	return nil
}

// Delete removes a product by its ID; the foreign-key cascade removes its
// image rows with it.
func (r *GORMProductRepository) Delete(id string) error {
	result := r.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, result.Error, "failed to delete product %s", id)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "product with id %s not found for deletion", id)
	}
	return nil
}

// DeleteAll unconditionally removes every product row and, via cascade,
// every image row. Bulk-reset only.
func (r *GORMProductRepository) DeleteAll() error {
	err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Product{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "failed to delete all products")
	}
	return nil
}

// ImagesForProduct returns the image rows owned by a product in stored order.
func (r *GORMProductRepository) ImagesForProduct(productID string) ([]models.ProductImage, error) {
	images := []models.ProductImage{}
	err := r.db.Where("product_id = ?", productID).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to list images for product %s", productID)
	}
	return images, nil
}

// classifyWriteError maps store failures after rollback: unique-constraint
// violations become Conflict, already-classified errors pass through, and
// everything else is Internal.
func classifyWriteError(err error, msg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.KindConflict, err, "product title or slug already exists")
	}
	return apperr.Wrap(apperr.KindInternal, err, "%s", msg)
}
