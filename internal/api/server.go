package api

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/config"
)

type Server struct {
	db  *sql.DB
	cfg *config.Config
}

func NewServer(db *sql.DB, cfg *config.Config) *Server {
	return &Server{db: db, cfg: cfg}
}

func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	api.GET("/products", s.browseProducts)
	api.GET("/products/:slug", s.getPublicProduct)
	api.GET("/categories", s.listCategories)
	api.GET("/brands", s.listBrands)

	vendor := api.Group("/vendor", s.Authenticate())
	vendor.POST("/products", s.createProduct)
	vendor.GET("/products", s.listVendorProducts)
	vendor.GET("/products/:id", s.getVendorProduct)
	vendor.PUT("/products/:id", s.updateProduct)
	vendor.POST("/products/:id/submit", s.submitProduct)
	vendor.POST("/products/:id/images", s.addProductImage)
	vendor.DELETE("/products/:id/images/:imageID", s.deleteProductImage)
	vendor.POST("/products/:id/images/:imageID/primary", s.setPrimaryImage)

	admin := api.Group("/admin", s.Authenticate())
	admin.GET("/products", s.listAllProducts)
	admin.POST("/products/:id/approve", s.approveProduct)
	admin.POST("/products/:id/reject", s.rejectProduct)
	admin.PUT("/products/:id/featured", s.setProductFeatured)
	admin.PUT("/vendors/:id/verify", s.verifyVendor)
	admin.POST("/categories", s.createCategory)
	admin.POST("/brands", s.createBrand)

	return router
}
