package api

import (
	"net/http"

	"pos-service/internal/models"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

type productRequest struct {
	Name       string `json:"name" binding:"required"`
	Price      int64  `json:"price" binding:"required"`
	Image      string `json:"image"`
	Stock      int    `json:"stock"`
	CategoryID *int64 `json:"category_id"`
}

// listProducts returns the full catalog with current stock counters
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load products",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// createProduct adds a catalog product
func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := &models.Product{
		Name:       req.Name,
		Price:      req.Price,
		Image:      req.Image,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	}
	if err := h.catalog.AddProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create product",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct overwrites a catalog product
func (h *Handler) updateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := &models.Product{
		ID:         productID,
		Name:       req.Name,
		Price:      req.Price,
		Image:      req.Image,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	}
	if err := h.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update product",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a catalog product and its stored images
func (h *Handler) deleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete product",
			"details": err.Error(),
		})
		return
	}
	h.stock.Forget(c.Request.Context(), productID)
	h.media.DeleteProductImages(productID)
	c.Status(http.StatusNoContent)
}

// setProductStock overwrites a product's counter (the stock adjustment screen)
func (h *Handler) setProductStock(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Stock int `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.stock.SetAbsolute(c.Request.Context(), productID, req.Stock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update stock",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "stock": req.Stock})
}

// uploadProductImage stores a product image and points the product at it
func (h *Handler) uploadProductImage(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing image file",
		})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Image exceeds the 5 MB limit",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to read image file",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	name, thumb, err := h.media.SaveProductImage(productID, file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to store image",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}
	product.Image = name
	if err := h.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": name, "thumbnail": thumb})
}

// serveMedia serves a stored image
func (h *Handler) serveMedia(c *gin.Context) {
	c.File(h.media.Path(c.Param("name")))
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// listCategories returns all categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load categories",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// createCategory adds a category
func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	category := &models.Category{Name: req.Name}
	if err := h.catalog.AddCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create category",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// updateCategory renames a category
func (h *Handler) updateCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	category := &models.Category{ID: categoryID, Name: req.Name}
	if err := h.catalog.UpdateCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update category",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, category)
}

// deleteCategory removes a category; products keep their dangling reference
// until edited, matching how the catalog treats categories as filters only
func (h *Handler) deleteCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete category",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}
