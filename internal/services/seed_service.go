package services

import (
	"fmt"

	"tienda/internal/apperr"
	"tienda/internal/models"
	"tienda/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// seedAdmin is the account that owns the seeded catalog.
var seedAdmin = struct {
	FullName string
	Email    string
	Password string
}{
	FullName: "Seed Admin",
	Email:    "admin@tienda.local",
	Password: "Admin123",
}

var seedProducts = []CreateProductInput{
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Price:       75,
		Description: "Introducing the Tesla Chill Collection. The Men's Chill Crew Neck Sweatshirt has a premium, heavyweight exterior and soft fleece interior for comfort in any season.",
		Stock:       7,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      models.GenderMen,
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Price:       225,
		Description: "The Women's Cropped Puffer Jacket features a uniquely cropped silhouette for the perfect, modern style.",
		Stock:       85,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      models.GenderWomen,
		Tags:        []string{"jacket"},
		Images:      []string{"9733521-00-A_0_2000.jpg", "9733521-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cyberquad Bomber Jacket",
		Price:       65,
		Description: "Wear your love for Cyberquad with this bomber jacket sporting an embroidered graphic.",
		Stock:       10,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      models.GenderKid,
		Tags:        []string{"shirt"},
		Images:      []string{"1742702-00-A_0_2000.jpg", "1742702-00-A_1.jpg"},
	},
	{
		Title:       "Teslo T-shirt",
		Price:       199.99,
		Description: "Limited edition Teslo T-shirt.",
		Stock:       50,
		Sizes:       []string{"S", "M", "L"},
		Gender:      models.GenderUnisex,
		Tags:        []string{"shirt", "new"},
		Images:      []string{"7654393-00-A_2_2000.jpg", "7654393-00-A_3.jpg"},
	},
}

// SeedService is the bulk-reset collaborator: it wipes the catalog and
// repopulates it through the regular create path.
type SeedService struct {
	catalog  *CatalogService
	userRepo repositories.UserRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(catalog *CatalogService, userRepo repositories.UserRepository) *SeedService {
	return &SeedService{
		catalog:  catalog,
		userRepo: userRepo,
	}
}

// Run deletes every product and inserts the seed dataset, owned by the seed
// admin account (created on first run).
func (s *SeedService) Run() error {
	admin, err := s.ensureAdmin()
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteAll(); err != nil {
		return err
	}
	for _, input := range seedProducts {
		if _, err := s.catalog.Create(input, admin); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", input.Title, err)
		}
	}
	return nil
}

func (s *SeedService) ensureAdmin() (*models.User, error) {
	admin, err := s.userRepo.GetByEmail(seedAdmin.Email)
	if err == nil {
		return admin, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to hash seed admin password")
	}
	admin = &models.User{
		FullName: seedAdmin.FullName,
		Email:    seedAdmin.Email,
		Password: string(hashedPassword),
		Roles:    []string{"admin", "user"},
		Active:   true,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}
