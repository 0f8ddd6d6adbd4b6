package handlers

import (
	"fmt"
	"log"
	"time"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/services"
	"bazaar/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const productCacheTTL = 10 * time.Minute

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	cache    *cache.Cache
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler. responseCache may be nil.
func NewProductHandler(service *services.ProductService, responseCache *cache.Cache) *ProductHandler {
	return &ProductHandler{
		service:  service,
		cache:    responseCache,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the unauthenticated catalog reads. These
// must be mounted before any auth middleware attaches to the prefix.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProduct)
}

// RegisterSellerRoutes registers catalog writes on an authenticated router,
// gated per route so sibling buyer routes are unaffected.
func (h *ProductHandler) RegisterSellerRoutes(router fiber.Router, sellerOnly fiber.Handler) {
	router.Post("/products", sellerOnly, h.HandleCreateProduct)
	router.Put("/products/:id", sellerOnly, h.HandleUpdateProduct)
	router.Delete("/products/:id", sellerOnly, h.HandleDeleteProduct)
	router.Post("/products/:id/variants", sellerOnly, h.HandleAddVariant)
}

// HandleGetProducts returns a page of products, cached per page.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	status := c.Query("status", models.ProductStatusActive)
	page, limit, offset := pagination(c)

	cacheKey := fmt.Sprintf("%s:%s:%d", cache.ProductListKey(fmt.Sprint(page)), status, limit)
	var cached fiber.Map
	if h.cache.Get(c.Context(), cacheKey, &cached) {
		return c.JSON(cached)
	}

	products, total, err := h.service.GetProducts(status, limit, offset)
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return fail(c, err, "Could not retrieve products")
	}

	payload := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"products":   products,
			"pagination": paginationMeta(page, limit, total),
		},
	}
	h.cache.Set(c.Context(), cacheKey, payload, productCacheTTL)
	return c.JSON(payload)
}

// HandleGetProduct returns a single product with its variants.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	cacheKey := cache.ProductKey(productID)
	var cached fiber.Map
	if h.cache.Get(c.Context(), cacheKey, &cached) {
		return c.JSON(cached)
	}

	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		return fail(c, err, "Could not retrieve product")
	}

	payload := fiber.Map{
		"success": true,
		"data":    fiber.Map{"product": product},
	}
	h.cache.Set(c.Context(), cacheKey, payload, productCacheTTL)
	return c.JSON(payload)
}

// CreateProductRequest is the seller product creation body.
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Brand         string  `json:"brand" validate:"required"`
	Description   string  `json:"description" validate:"required,min=10,max=2000"`
	SKU           string  `json:"sku" validate:"required"`
	Slug          string  `json:"slug" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DiscountPrice float64 `json:"discount_price" validate:"omitempty,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
}

// HandleCreateProduct creates a product owned by the authenticated seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if req.DiscountPrice > 0 && req.DiscountPrice >= req.Price {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Discount price must be lower than the list price",
		})
	}

	product := models.Product{
		Name:          req.Name,
		Brand:         req.Brand,
		Description:   req.Description,
		SKU:           req.SKU,
		Slug:          req.Slug,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		Status:        req.Status,
	}
	if err := h.service.CreateProduct(middleware.UserID(c), &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return fail(c, err, "Failed to create product")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"data":    fiber.Map{"product": product},
	})
}

// UpdateProductRequest is the seller product update body. Zero values are
// applied as-is; clients send the full representation.
type UpdateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Brand         string  `json:"brand" validate:"required"`
	Description   string  `json:"description" validate:"required,min=10,max=2000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DiscountPrice float64 `json:"discount_price" validate:"omitempty,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
}

// HandleUpdateProduct updates one of the seller's products.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if req.DiscountPrice > 0 && req.DiscountPrice >= req.Price {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Discount price must be lower than the list price",
		})
	}

	product := models.Product{
		Name:          req.Name,
		Brand:         req.Brand,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		Status:        req.Status,
	}
	product.ID = productID
	if err := h.service.UpdateProduct(middleware.UserID(c), &product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return fail(c, err, "Failed to update product")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"data":    fiber.Map{"product": product},
	})
}

// HandleDeleteProduct deletes one of the seller's products.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(middleware.UserID(c), productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return fail(c, err, "Failed to delete product")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// AddVariantRequest is the seller variant creation body.
type AddVariantRequest struct {
	Size            string  `json:"size" validate:"required,max=10"`
	Color           string  `json:"color" validate:"required,max=50"`
	ColorCode       string  `json:"color_code" validate:"omitempty,hexcolor"`
	SKU             string  `json:"sku" validate:"required"`
	PriceAdjustment float64 `json:"price_adjustment"`
	StockQuantity   int     `json:"stock_quantity" validate:"gte=0"`
}

// HandleAddVariant attaches a variant to one of the seller's products.
func (h *ProductHandler) HandleAddVariant(c *fiber.Ctx) error {
	productID := c.Params("id")
	var req AddVariantRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add variant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	variant := models.ProductVariant{
		ProductID:       productID,
		Size:            req.Size,
		Color:           req.Color,
		ColorCode:       req.ColorCode,
		SKU:             req.SKU,
		PriceAdjustment: req.PriceAdjustment,
		StockQuantity:   req.StockQuantity,
		IsActive:        true,
	}
	if err := h.service.AddVariant(middleware.UserID(c), &variant); err != nil {
		log.Printf("Error adding variant to product %s: %v", productID, err)
		return fail(c, err, "Failed to add variant")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Variant added successfully",
		"data":    fiber.Map{"variant": variant},
	})
}
