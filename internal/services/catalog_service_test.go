package services_test

import (
	"testing"

	"tienda/internal/apperr"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// StubProductRepository is a testify mock of repositories.ProductRepository
// used for interaction tests; behavioral tests run against the in-memory
// repositories.MockProductRepository instead.
type StubProductRepository struct {
	mock.Mock
}

func (m *StubProductRepository) FindAll(limit, offset int) ([]models.Product, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *StubProductRepository) FindByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *StubProductRepository) FindByNaturalKey(term string) (*models.Product, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *StubProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *StubProductRepository) Update(product *models.Product, replaceImages bool) error {
	args := m.Called(product, replaceImages)
	return args.Error(0)
}

func (m *StubProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *StubProductRepository) DeleteAll() error {
	args := m.Called()
	return args.Error(0)
}

func (m *StubProductRepository) ImagesForProduct(productID string) ([]models.ProductImage, error) {
	args := m.Called(productID)
	return args.Get(0).([]models.ProductImage), args.Error(1)
}

// fakePublisher records published catalog events.
type fakePublisher struct {
	routingKeys []string
}

func (f *fakePublisher) Publish(exchange, routingKey string, body []byte) error {
	f.routingKeys = append(f.routingKeys, routingKey)
	return nil
}

var testUser = &models.User{ID: "user-1", FullName: "Admin", Roles: []string{"admin"}, Active: true}

func TestCatalogService_Create(t *testing.T) {
	stubRepo := new(StubProductRepository)
	publisher := &fakePublisher{}
	service := services.NewCatalogService(stubRepo, publisher)

	var captured *models.Product
	stubRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(*models.Product)
		}).
		Return(nil).Once()

	product, err := service.Create(services.CreateProductInput{
		Title:  "Teslo T-shirt",
		Price:  199.99,
		Sizes:  []string{"S", "M"},
		Gender: models.GenderUnisex,
		Images: []string{"a.jpg", "b.jpg"},
	}, testUser)

	assert.NoError(t, err)
	assert.Equal(t, captured, product)
	_, err = uuid.Parse(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, testUser.ID, product.UserID)
	// Image rows follow the supplied URL order.
	assert.Len(t, product.Images, 2)
	assert.Equal(t, "a.jpg", product.Images[0].URL)
	assert.Equal(t, "b.jpg", product.Images[1].URL)
	assert.Equal(t, []string{"product.created"}, publisher.routingKeys)
	stubRepo.AssertExpectations(t)

	// A failing create publishes nothing and surfaces the error untouched.
	stubRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Return(apperr.New(apperr.KindConflict, "product title or slug already exists")).Once()
	_, err = service.Create(services.CreateProductInput{
		Title:  "Teslo T-shirt",
		Price:  199.99,
		Sizes:  []string{"S"},
		Gender: models.GenderUnisex,
	}, testUser)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, []string{"product.created"}, publisher.routingKeys)
	stubRepo.AssertExpectations(t)
}

func TestCatalogService_FindOne_ResolvesTerm(t *testing.T) {
	stubRepo := new(StubProductRepository)
	service := services.NewCatalogService(stubRepo, nil)

	id := uuid.New().String()
	expected := &models.Product{ID: id, Title: "Teslo T-shirt"}

	// An identifier-shaped term goes through the ID branch.
	stubRepo.On("FindByID", id).Return(expected, nil).Once()
	product, err := service.FindOne(id)
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	// Anything else is probed as a natural key.
	stubRepo.On("FindByNaturalKey", "teslo_t-shirt").Return(expected, nil).Once()
	product, err = service.FindOne("teslo_t-shirt")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	stubRepo.On("FindByNaturalKey", "missing").
		Return(nil, apperr.New(apperr.KindNotFound, "product with id missing not found")).Once()
	_, err = service.FindOne("missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	stubRepo.AssertExpectations(t)
}

func TestCatalogService_FindAll_PassesBounds(t *testing.T) {
	stubRepo := new(StubProductRepository)
	service := services.NewCatalogService(stubRepo, nil)

	expected := []models.Product{{ID: "1"}, {ID: "2"}}
	stubRepo.On("FindAll", 2, 4).Return(expected, nil).Once()

	products, err := service.FindAll(2, 4)
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	stubRepo.AssertExpectations(t)
}

func TestCatalogService_Update_EmptyPayloadKeepsImages(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(repo, nil)

	created, err := service.Create(services.CreateProductInput{
		Title:  "Men's Raven Joggers",
		Price:  100,
		Sizes:  []string{"M"},
		Gender: models.GenderMen,
		Images: []string{"1.jpg", "2.jpg"},
	}, testUser)
	assert.NoError(t, err)
	assert.Equal(t, "mens_raven_joggers", created.Slug)

	other := &models.User{ID: "user-2", FullName: "Other Admin", Roles: []string{"admin"}}
	updated, err := service.Update(created.ID, services.UpdateProductInput{}, other)
	assert.NoError(t, err)

	// No fields touched, images intact, slug still normalized, owner moved.
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, "mens_raven_joggers", updated.Slug)
	assert.Len(t, updated.Images, 2)
	assert.Equal(t, "1.jpg", updated.Images[0].URL)
	assert.Equal(t, "2.jpg", updated.Images[1].URL)
	assert.Equal(t, other.ID, updated.UserID)
}

func TestCatalogService_Update_EmptyImageListClears(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(repo, nil)

	created, err := service.Create(services.CreateProductInput{
		Title:  "Women's Tee",
		Price:  30,
		Sizes:  []string{"S"},
		Gender: models.GenderWomen,
		Images: []string{"1.jpg"},
	}, testUser)
	assert.NoError(t, err)

	empty := []string{}
	updated, err := service.Update(created.ID, services.UpdateProductInput{Images: &empty}, testUser)
	assert.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestCatalogService_Update_MergesPartialFields(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(repo, nil)

	created, err := service.Create(services.CreateProductInput{
		Title:       "Kids Racing Stripe Tee",
		Price:       30,
		Description: "original description",
		Stock:       5,
		Sizes:       []string{"XS"},
		Gender:      models.GenderKid,
		Images:      []string{"1.jpg"},
	}, testUser)
	assert.NoError(t, err)

	newTitle := "Kids Racing Stripe Tee Deluxe"
	newPrice := 45.0
	updated, err := service.Update(created.ID, services.UpdateProductInput{
		Title: &newTitle,
		Price: &newPrice,
	}, testUser)
	assert.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, newPrice, updated.Price)
	// Untouched fields survive the merge.
	assert.Equal(t, "original description", updated.Description)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, []string{"XS"}, updated.Sizes)
	// Supplying a new title does not rewrite an existing slug.
	assert.Equal(t, "kids_racing_stripe_tee", updated.Slug)
	assert.Len(t, updated.Images, 1)
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(repo, nil)

	_, err := service.Update(uuid.New().String(), services.UpdateProductInput{}, testUser)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCatalogService_Remove(t *testing.T) {
	stubRepo := new(StubProductRepository)
	publisher := &fakePublisher{}
	service := services.NewCatalogService(stubRepo, publisher)

	id := uuid.New().String()
	stubRepo.On("FindByID", id).Return(&models.Product{ID: id}, nil).Once()
	stubRepo.On("Delete", id).Return(nil).Once()

	assert.NoError(t, service.Remove(id))
	assert.Equal(t, []string{"product.deleted"}, publisher.routingKeys)
	stubRepo.AssertExpectations(t)

	// Removing a missing product fails before any delete is attempted.
	missing := uuid.New().String()
	stubRepo.On("FindByID", missing).
		Return(nil, apperr.New(apperr.KindNotFound, "product with id %s not found", missing)).Once()
	err := service.Remove(missing)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	stubRepo.AssertExpectations(t)
}

func TestCatalogService_DeleteAll(t *testing.T) {
	stubRepo := new(StubProductRepository)
	service := services.NewCatalogService(stubRepo, nil)

	stubRepo.On("DeleteAll").Return(nil).Once()
	assert.NoError(t, service.DeleteAll())
	stubRepo.AssertExpectations(t)
}
