package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/store"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// parsePrice keeps client-sent prices exact; converting through float64 would
// introduce binary rounding artifacts into a money field.
func parsePrice(raw json.Number) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw.String())
}

type createProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	CategoryID  int64       `json:"category_id" binding:"required"`
	BrandID     *int64      `json:"brand_id"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		respondError(c, catalog.BadInput("Invalid product price."))
		return
	}

	product, err := store.CreateProduct(c.Request.Context(), s.db, actorFrom(c), store.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully.", "product": product})
}

func (s *Server) listVendorProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 || pageSize > 50 {
		pageSize = 12
	}

	categoryID, _ := strconv.ParseInt(c.Query("category"), 10, 64)
	filter := store.VendorProductFilter{
		Status:     c.Query("status"),
		CategoryID: categoryID,
		Search:     c.Query("search"),
	}

	result, stats, err := store.ListVendorProducts(c.Request.Context(), s.db, actorFrom(c), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": result, "stats": stats})
}

func (s *Server) getVendorProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := store.GetVendorProduct(c.Request.Context(), s.db, actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

type updateProductRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
	Stock       *int         `json:"stock"`
	CategoryID  *int64       `json:"category_id"`
	BrandID     *int64       `json:"brand_id"`
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	in := store.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			respondError(c, catalog.BadInput("Invalid product price."))
			return
		}
		in.Price = &price
	}

	product, err := store.UpdateProduct(c.Request.Context(), s.db, actorFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully.", "product": product})
}

func (s *Server) submitProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := store.SubmitProduct(c.Request.Context(), s.db, actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product submitted for approval successfully.", "product": product})
}

type addImageRequest struct {
	ImageURL     string `json:"image_url" binding:"required,url"`
	AltText      string `json:"alt_text"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Server) addProductImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	image, err := store.AddProductImage(c.Request.Context(), s.db, actorFrom(c), id, store.AddImageInput{
		ImageURL:     req.ImageURL,
		AltText:      req.AltText,
		IsPrimary:    req.IsPrimary,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Image added successfully.", "image": image})
}

func (s *Server) deleteProductImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageID")
	if !ok {
		return
	}

	if err := store.DeleteProductImage(c.Request.Context(), s.db, actorFrom(c), id, imageID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully."})
}

func (s *Server) setPrimaryImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageID")
	if !ok {
		return
	}

	image, err := store.SetPrimaryImage(c.Request.Context(), s.db, actorFrom(c), id, imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image set as primary successfully.", "image": image})
}
