package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/models"
)

type BrowseFilter struct {
	CategorySlug string
	Search       string
	FeaturedOnly bool
}

// BrowseProducts is the public catalog feed: active products only, newest
// first, keyset-paginated so the feed stays stable while products are
// approved.
func BrowseProducts(ctx context.Context, db *sql.DB, filter BrowseFilter, cursor string, limit int) (*CursorPage, error) {
	position, err := DecodeCursor(cursor)
	if err != nil {
		return nil, catalog.BadInput("Invalid cursor.")
	}

	where := []string{
		"p.status = $1",
		"(p.created_at, p.id) < ($2, $3)",
	}
	args := []interface{}{models.StatusActive, position.CreatedAt, position.ID}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.FeaturedOnly {
		where = append(where, "p.is_featured")
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.slug, p.description, p.price, p.stock, p.category_id,
			p.brand_id, p.seller_id, p.status, p.is_featured, p.approved_by,
			p.approved_at, p.rejection_reason, p.views_count, p.sales_count,
			p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d`, strings.Join(where, " AND "), len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("browse products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}

	if err := attachPrimaryImages(ctx, db, products); err != nil {
		return nil, err
	}

	nextCursor := ""
	if hasMore && len(products) > 0 {
		last := products[len(products)-1]
		nextCursor = EncodeCursor(ProductCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &CursorPage{
		Items:      products,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// attachPrimaryImages loads the primary image for each listed product in one
// query, so listing representations can show the representative image without
// fetching full image sets.
func attachPrimaryImages(ctx context.Context, db *sql.DB, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	query := `SELECT ` + imageColumns + ` FROM product_images WHERE product_id = ANY($1) AND is_primary`
	rows, err := db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load primary images: %w", err)
	}
	defer rows.Close()

	primaries := make(map[int64]models.ProductImage)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return fmt.Errorf("scan primary image: %w", err)
		}
		primaries[image.ProductID] = *image
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	for i := range products {
		if image, ok := primaries[products[i].ID]; ok {
			products[i].Images = []models.ProductImage{image}
		}
	}
	return nil
}

// GetPublicProduct resolves an active product by slug for customer display and
// counts the view in the same statement. Non-active products do not exist from
// the public side.
func GetPublicProduct(ctx context.Context, db *sql.DB, slug string) (*models.Product, error) {
	query := `
		UPDATE products
		SET views_count = views_count + 1, updated_at = NOW()
		WHERE slug = $1 AND status = $2
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, slug, models.StatusActive))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.NotFound("Product not found.")
		}
		return nil, fmt.Errorf("get public product: %w", err)
	}

	if product.Images, err = ListProductImages(ctx, db, product.ID); err != nil {
		return nil, err
	}

	return product, nil
}
