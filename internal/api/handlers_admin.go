package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/store"
)

func (s *Server) listAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 || pageSize > 50 {
		pageSize = 12
	}

	result, err := store.ListAllProducts(c.Request.Context(), s.db, actorFrom(c), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) approveProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := store.ApproveProduct(c.Request.Context(), s.db, actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product approved successfully.", "product": product})
}

type rejectProductRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) rejectProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req rejectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := store.RejectProduct(c.Request.Context(), s.db, actorFrom(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product rejected.", "product": product})
}

type setFeaturedRequest struct {
	IsFeatured bool `json:"is_featured"`
}

func (s *Server) setProductFeatured(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req setFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := store.SetProductFeatured(c.Request.Context(), s.db, actorFrom(c), id, req.IsFeatured)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product featured flag updated.", "product": product})
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	category, err := store.CreateCategory(c.Request.Context(), s.db, actorFrom(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully.", "category": category})
}

type createBrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
}

func (s *Server) createBrand(c *gin.Context) {
	var req createBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	brand, err := store.CreateBrand(c.Request.Context(), s.db, actorFrom(c), req.Name, req.Description, req.LogoURL, req.Website)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Brand created successfully.", "brand": brand})
}

func (s *Server) verifyVendor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := store.VerifyVendor(c.Request.Context(), s.db, actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendor verified successfully.", "user": user})
}
