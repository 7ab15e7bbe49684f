package handler

import (
	"io"
	"path/filepath"
	"strconv"

	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create adds a product to the catalog. Accepts JSON or multipart form data
// with an optional image file.
// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	req, image, ext, err := parseProductForm(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := h.productService.Add(userID, req, image, ext)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(product)
}

// GetAll lists the owner's products
// GET /api/v1/products
func (h *ProductHandler) GetAll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	products, err := h.productService.GetAll(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GetByID fetches a single product
// GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.GetByID(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// Update modifies a product
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req, image, ext, err := parseProductForm(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := h.productService.Update(id, userID, req, image, ext)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// Delete removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(id, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// parseProductForm reads the product fields from either a JSON body or a
// multipart form, returning the optional uploaded image alongside.
func parseProductForm(c *fiber.Ctx) (*service.ProductRequest, []byte, string, error) {
	var req service.ProductRequest

	if form, err := c.MultipartForm(); err == nil && form != nil {
		req.Name = formValue(form.Value, "name")
		req.Barcode = formValue(form.Value, "barcode")
		req.Description = formValue(form.Value, "description")
		req.Category = formValue(form.Value, "category")
		if v := formValue(form.Value, "price"); v != "" {
			price, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, nil, "", fiber.NewError(400, "price must be an integer amount in paise")
			}
			req.Price = price
		}
		if v := formValue(form.Value, "stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil {
				return nil, nil, "", fiber.NewError(400, "stock must be an integer")
			}
			req.Stock = stock
		}

		image, ext, err := readFormFile(c, "image")
		if err != nil {
			return nil, nil, "", err
		}
		return &req, image, ext, nil
	}

	if err := c.BodyParser(&req); err != nil {
		return nil, nil, "", fiber.NewError(400, "Invalid JSON")
	}
	return &req, nil, "", nil
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// readFormFile loads an optional multipart file into memory. Missing file is
// not an error.
func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", fiber.NewError(400, "failed to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fiber.NewError(400, "failed to read uploaded file")
	}
	return data, filepath.Ext(header.Filename), nil
}
