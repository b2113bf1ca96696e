package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/models"
)

// moderationOutcome applies a pending→active or pending→rejected transition as
// a single guarded update: the WHERE clause is the compare-and-swap, so a
// product that left pending in the meantime is never overwritten.
func moderationOutcome(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64, status, reason string) (*models.Product, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}

	query := `
		UPDATE products
		SET status = $1, approved_by = $2, approved_at = NOW(),
			rejection_reason = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		status, caller.ID, reason, id, models.StatusPending))
	if err != nil {
		if err == sql.ErrNoRows {
			var current string
			probeErr := db.QueryRowContext(ctx,
				`SELECT status FROM products WHERE id = $1`, id).Scan(&current)
			if probeErr == sql.ErrNoRows {
				return nil, catalog.NotFound("Product not found.")
			}
			if probeErr != nil {
				return nil, fmt.Errorf("probe product status: %w", probeErr)
			}
			return nil, catalog.InvalidTransition(fmt.Sprintf(
				"Only products in 'pending' status can be moderated. Current status: %s.", current))
		}
		return nil, fmt.Errorf("moderate product: %w", err)
	}

	return product, nil
}

// ApproveProduct makes a pending product live, recording the approver and
// clearing any stale rejection reason.
func ApproveProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64) (*models.Product, error) {
	return moderationOutcome(ctx, db, caller, id, models.StatusActive, "")
}

// RejectProduct sends a pending product back to its vendor. A reason is
// mandatory; it is what the vendor sees.
func RejectProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64, reason string) (*models.Product, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, catalog.BadInput("Rejection reason is required.")
	}
	return moderationOutcome(ctx, db, caller, id, models.StatusRejected, reason)
}

// SetProductFeatured toggles the admin-only featured flag. This is not a
// general edit path; no other field is touched.
func SetProductFeatured(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64, featured bool) (*models.Product, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}

	query := `
		UPDATE products
		SET is_featured = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, featured, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.NotFound("Product not found.")
		}
		return nil, fmt.Errorf("set product featured: %w", err)
	}

	return product, nil
}

// ListAllProducts is the moderation queue view: every seller, every status,
// optionally narrowed to one status.
func ListAllProducts(ctx context.Context, db *sql.DB, caller catalog.Actor, status string, page, pageSize int) (*OffsetPage, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}

	where := "TRUE"
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		where = "status = $1"
	}

	var total int64
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, productColumns, where, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
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

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
