package models

import (
	"time"

	"gorm.io/gorm"
)

// Valid values for Product.Gender.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderKid    = "kid"
	GenderUnisex = "unisex"
)

// Product represents a catalog product with its ordered image collection.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string         `json:"title" gorm:"uniqueIndex;type:varchar(200)" validate:"required,min=1,max=200"`
	Price       float64        `json:"price" validate:"gte=0"`
	Description string         `json:"description"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;type:varchar(200)"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Sizes       []string       `json:"sizes" gorm:"serializer:json"`
	Gender      string         `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string       `json:"tags" gorm:"serializer:json"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UserID      string         `json:"user_id" gorm:"type:varchar(36)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeSave derives and normalizes the slug on every insert and update, so
// slugs written before the rule existed are repaired on their next save.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = NormalizeSlug(p.Slug)
	return nil
}

// ProductImage is one entry of a product's ordered image collection. The
// autoincrement key preserves the order images were supplied in, so reads
// ordered by ID reproduce the last committed list.
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	URL       string `json:"url" gorm:"type:varchar(500)"`
	ProductID string `json:"-" gorm:"type:varchar(36);index"`
}
