package handlers

import (
	"fmt"
	"log"
	"strconv"

	"tienda/internal/apperr"
	"tienda/internal/middleware"
	"tienda/internal/repositories"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service     *services.CatalogService
	authService *services.AuthService
	userRepo    repositories.UserRepository
	validate    *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService, authService *services.AuthService, userRepo repositories.UserRepository) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
		userRepo:    userRepo,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// open to any authenticated user; mutations are gated on the admin role
// before the catalog service is ever invoked.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products", middleware.AuthRequired(h.authService, h.userRepo))
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:term", h.HandleGetProduct)

	adminOnly := middleware.RequireRoles(h.authService, "admin")
	productRoutes.Post("/", adminOnly, h.HandleCreateProduct)
	productRoutes.Patch("/:id", adminOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", adminOnly, h.HandleDeleteProduct)
}

// parsePagination reads optional limit/offset query params. Absent limit
// means no bound (-1); absent offset means 0. Both must be non-negative
// integers when present.
func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, offset = -1, 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, apperr.New(apperr.KindInvalid, "limit must be a non-negative integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperr.New(apperr.KindInvalid, "offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

// HandleGetProducts returns a page of products with images attached.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.FindAll(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct resolves a product by ID, slug, or title.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.FindOne(c.Params("term"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product owned by the acting user.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication is required",
		})
	}

	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidationError(c, err)
	}

	product, err := h.service.Create(input, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication is required",
		})
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidationError(c, err)
	}

	product, err := h.service.Update(c.Params("id"), input, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and its images.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.Remove(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// respondValidationError flattens validator errors into a field→reason map.
func respondValidationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return respondError(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
