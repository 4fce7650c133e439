package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
	log     *logger.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploadProduct", h.HandleUploadProduct)
	router.Get("/product", h.HandleListProducts)
	router.Get("/product/:productId", h.HandleGetProduct)
}

// HandleUploadProduct stores the body as a product without validation.
func (h *ProductHandler) HandleUploadProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c)
	}

	if _, err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, h.log, err, "Failed to upload product")
	}
	return respond(c, fiber.StatusOK, "Upload successfully", nil)
}

// HandleListProducts returns every product as a bare JSON array.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		h.log.Error(c.UserContext(), "failed to fetch products", err)
		return respond(c, fiber.StatusInternalServerError, "Failed to fetch products", nil)
	}
	return c.JSON(products)
}

// HandleGetProduct returns a single product by id.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch product")
	}
	return respond(c, fiber.StatusOK, "Product found", fiber.Map{"data": product})
}
