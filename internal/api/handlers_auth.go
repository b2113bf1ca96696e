package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/auth"
	"github.com/safar/go-marketplace/internal/database"
	"github.com/safar/go-marketplace/internal/models"
	"github.com/safar/go-marketplace/internal/store"
)

type registerRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required,min=8"`
	Role             string `json:"role" binding:"omitempty,oneof=customer vendor"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	StoreName        string `json:"store_name"`
	StoreDescription string `json:"store_description"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := store.CreateUser(c.Request.Context(), s.db, store.CreateUserInput{
		Email:            req.Email,
		Username:         req.Username,
		PasswordHash:     hash,
		Role:             role,
		Phone:            req.Phone,
		Address:          req.Address,
		StoreName:        req.StoreName,
		StoreDescription: req.StoreDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful.", "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := store.GetUserByEmail(c.Request.Context(), s.db, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
