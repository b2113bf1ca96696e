package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/database"
	"github.com/safar/go-marketplace/internal/models"
)

// Categories and brands are admin-managed reference data; vendors only pick
// from them.
func CreateCategory(ctx context.Context, db *sql.DB, caller catalog.Actor, name, description string) (*models.Category, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}
	if strings.TrimSpace(name) == "" {
		return nil, catalog.BadInput("Category name is required.")
	}

	category := &models.Category{}

	query := `
		INSERT INTO categories (name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, slug, description, is_active, created_at, updated_at`

	err := db.QueryRowContext(ctx, query, name, catalog.Slugify(name), description).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, catalog.BadInput("Category already exists.")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func ListCategories(ctx context.Context, db *sql.DB) ([]models.Category, error) {
	query := `
		SELECT id, name, slug, description, is_active, created_at, updated_at
		FROM categories
		WHERE is_active
		ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func CreateBrand(ctx context.Context, db *sql.DB, caller catalog.Actor, name, description, logoURL, website string) (*models.Brand, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}
	if strings.TrimSpace(name) == "" {
		return nil, catalog.BadInput("Brand name is required.")
	}

	brand := &models.Brand{}

	query := `
		INSERT INTO brands (name, slug, description, logo_url, website, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, name, slug, description, logo_url, website, is_active, created_at`

	err := db.QueryRowContext(ctx, query, name, catalog.Slugify(name), description, logoURL, website).Scan(
		&brand.ID,
		&brand.Name,
		&brand.Slug,
		&brand.Description,
		&brand.LogoURL,
		&brand.Website,
		&brand.IsActive,
		&brand.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, catalog.BadInput("Brand already exists.")
		}
		return nil, fmt.Errorf("create brand: %w", err)
	}

	return brand, nil
}

func ListBrands(ctx context.Context, db *sql.DB) ([]models.Brand, error) {
	query := `
		SELECT id, name, slug, description, logo_url, website, is_active, created_at
		FROM brands
		WHERE is_active
		ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var brand models.Brand
		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Slug,
			&brand.Description,
			&brand.LogoURL,
			&brand.Website,
			&brand.IsActive,
			&brand.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return brands, nil
}
