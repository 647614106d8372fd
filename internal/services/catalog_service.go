package services

import (
	"encoding/json"
	"log"

	"tienda/internal/models"
	"tienda/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes catalog events to a message broker. Implemented
// by rabbitmq.Client; a nil publisher disables publication.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CreateProductInput carries the fields of a new product. The request layer
// validates it before the service sees it.
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Slug        string   `json:"slug" validate:"omitempty,max=200"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// UpdateProductInput carries a partial update. Nil fields are left
// untouched; a nil Images pointer keeps the existing collection, while a
// pointer to an empty slice clears it.
type UpdateProductInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Slug        *string   `json:"slug" validate:"omitempty,max=200"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string  `json:"sizes" validate:"omitempty,min=1,dive,required"`
	Gender      *string   `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        []string  `json:"tags"`
	Images      *[]string `json:"images"`
}

// CatalogService orchestrates product mutations as atomic units spanning
// the product row and its image rows. Authorization happens before any of
// these methods are invoked; the acting user arrives already authenticated.
type CatalogService struct {
	repo     repositories.ProductRepository
	mqClient EventPublisher
}

// NewCatalogService creates a new CatalogService. mqClient may be nil.
func NewCatalogService(repo repositories.ProductRepository, mqClient EventPublisher) *CatalogService {
	return &CatalogService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// Create persists a new product together with one image row per supplied
// URL, in order, as a single atomic unit. The acting user becomes the owner.
func (s *CatalogService) Create(input CreateProductInput, user *models.User) (*models.Product, error) {
	images := make([]models.ProductImage, 0, len(input.Images))
	for _, url := range input.Images {
		images = append(images, models.ProductImage{URL: url})
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Slug:        input.Slug,
		Stock:       input.Stock,
		Sizes:       input.Sizes,
		Gender:      input.Gender,
		Tags:        input.Tags,
		Images:      images,
		UserID:      user.ID,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// FindAll returns a page of products in stable insertion order, images
// attached. A negative limit means no bound.
func (s *CatalogService) FindAll(limit, offset int) ([]models.Product, error) {
	return s.repo.FindAll(limit, offset)
}

// FindOne resolves a search term: an identifier-shaped term is fetched by
// exact ID match, anything else is probed as a natural key against title
// (case-insensitive) or slug.
func (s *CatalogService) FindOne(term string) (*models.Product, error) {
	if _, err := uuid.Parse(term); err == nil {
		return s.repo.FindByID(term)
	}
	return s.repo.FindByNaturalKey(term)
}

// Update merges the supplied fields into the stored product and persists
// product plus images as one transaction. The image collection is replaced
// only when input.Images is present; ownership moves to the acting user.
// After commit the product is re-read so the caller gets the hydrated view.
func (s *CatalogService) Update(id string, input UpdateProductInput, user *models.User) (*models.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Slug != nil {
		product.Slug = *input.Slug
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Gender != nil {
		product.Gender = *input.Gender
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}

	replaceImages := input.Images != nil
	if replaceImages {
		images := make([]models.ProductImage, 0, len(*input.Images))
		for _, url := range *input.Images {
			images = append(images, models.ProductImage{URL: url})
		}
		product.Images = images
	}
	product.UserID = user.ID

	if err := s.repo.Update(product, replaceImages); err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", product)
	return s.repo.FindByID(id)
}

// Remove resolves the product by its identifier and deletes it; the cascade
// removes its owned images.
func (s *CatalogService) Remove(id string) error {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product.ID); err != nil {
		return err
	}
	s.publishEvent("product.deleted", product)
	return nil
}

// DeleteAll removes every product. Used only by the bulk-reset caller.
func (s *CatalogService) DeleteAll() error {
	return s.repo.DeleteAll()
}

// publishEvent emits a catalog event; failures are logged and never fail
// the mutation that triggered them.
func (s *CatalogService) publishEvent(routingKey string, product *models.Product) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"productID": product.ID,
		"title":     product.Title,
		"slug":      product.Slug,
		"userID":    product.UserID,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", routingKey, product.ID, err)
		return
	}
	if err := s.mqClient.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", routingKey, product.ID, err)
	}
}
