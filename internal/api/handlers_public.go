package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/models"
	"github.com/safar/go-marketplace/internal/store"
)

// browseItem is the listing representation: product fields plus the single
// representative image instead of the full image set.
type browseItem struct {
	models.Product
	PrimaryImage *models.ProductImage `json:"primary_image,omitempty"`
}

func (s *Server) browseProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 || limit > 50 {
		limit = 12
	}

	filter := store.BrowseFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		FeaturedOnly: c.Query("featured") == "true",
	}

	page, err := store.BrowseProducts(c.Request.Context(), s.db, filter, c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	products := page.Items.([]models.Product)
	items := make([]browseItem, len(products))
	for i := range products {
		items[i] = browseItem{Product: products[i], PrimaryImage: products[i].PrimaryImage()}
		items[i].Images = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"next_cursor": page.NextCursor,
		"has_more":    page.HasMore,
	})
}

func (s *Server) getPublicProduct(c *gin.Context) {
	product, err := store.GetPublicProduct(c.Request.Context(), s.db, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := store.ListCategories(c.Request.Context(), s.db)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) listBrands(c *gin.Context) {
	brands, err := store.ListBrands(c.Request.Context(), s.db)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}
