package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/database"
	"github.com/safar/go-marketplace/internal/models"
)

const productColumns = `id, name, slug, description, price, stock, category_id, brand_id,
	seller_id, status, is_featured, approved_by, approved_at, rejection_reason,
	views_count, sales_count, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	product := &models.Product{}
	var brandID, approvedBy sql.NullInt64
	var approvedAt sql.NullTime

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CategoryID,
		&brandID,
		&product.SellerID,
		&product.Status,
		&product.IsFeatured,
		&approvedBy,
		&approvedAt,
		&product.RejectionReason,
		&product.ViewsCount,
		&product.SalesCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if brandID.Valid {
		product.BrandID = &brandID.Int64
	}
	if approvedBy.Valid {
		product.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		product.ApprovedAt = &approvedAt.Time
	}

	return product, nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
	BrandID     *int64
}

// CreateProduct inserts a new product in draft, owned by the caller. Draft
// products may hold transiently invalid price/stock values; those rules bite at
// submission, not here.
func CreateProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, in CreateProductInput) (*models.Product, error) {
	if !caller.CanCreateProducts() {
		return nil, catalog.Forbidden("Only verified vendors can create products.")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, catalog.BadInput("Product name is required.")
	}
	if in.CategoryID <= 0 {
		return nil, catalog.BadInput("Product category is required.")
	}

	query := `
		INSERT INTO products (name, slug, description, price, stock, category_id,
			brand_id, seller_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + productColumns

	insert := func(slug string) (*models.Product, error) {
		return scanProduct(db.QueryRowContext(ctx, query,
			in.Name, slug, in.Description, in.Price, in.Stock,
			in.CategoryID, in.BrandID, caller.ID, models.StatusDraft))
	}

	product, err := insert(catalog.Slugify(in.Name))
	if database.IsUniqueViolation(err, "products_slug_key") {
		product, err = insert(catalog.SlugWithSuffix(in.Name))
	}
	if err != nil {
		if database.ClassifyError(err) == database.ErrorClassConstraint {
			return nil, catalog.BadInput("Category or brand does not exist.")
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

// GetVendorProduct returns the caller's own product with its images. Products
// of other sellers are reported as not found, never as forbidden.
func GetVendorProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64) (*models.Product, error) {
	if !caller.CanSellProducts() {
		return nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND seller_id = $2`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id, caller.ID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.NotFound("Product not found.")
		}
		return nil, fmt.Errorf("get vendor product: %w", err)
	}

	if product.Images, err = ListProductImages(ctx, db, product.ID); err != nil {
		return nil, err
	}

	return product, nil
}

type VendorProductFilter struct {
	Status     string
	CategoryID int64
	Search     string
}

// VendorStats is the vendor's own dashboard summary, computed over all of the
// caller's products regardless of the current page.
type VendorStats struct {
	TotalProducts    int64 `json:"total_products"`
	DraftProducts    int64 `json:"draft_products"`
	PendingProducts  int64 `json:"pending_products"`
	ActiveProducts   int64 `json:"active_products"`
	RejectedProducts int64 `json:"rejected_products"`
	InactiveProducts int64 `json:"inactive_products"`
	TotalViews       int64 `json:"total_views"`
	TotalSales       int64 `json:"total_sales"`
}

func ListVendorProducts(ctx context.Context, db *sql.DB, caller catalog.Actor, filter VendorProductFilter, page, pageSize int) (*OffsetPage, *VendorStats, error) {
	if !caller.CanSellProducts() {
		return nil, nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}

	where := []string{"seller_id = $1"}
	args := []interface{}{caller.ID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + whereClause
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("count vendor products: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, productColumns, whereClause, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("list vendor products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows error: %w", err)
	}

	stats := &VendorStats{}
	statsQuery := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'inactive'),
			COALESCE(SUM(views_count), 0),
			COALESCE(SUM(sales_count), 0)
		FROM products
		WHERE seller_id = $1`
	err = db.QueryRowContext(ctx, statsQuery, caller.ID).Scan(
		&stats.TotalProducts,
		&stats.DraftProducts,
		&stats.PendingProducts,
		&stats.ActiveProducts,
		&stats.RejectedProducts,
		&stats.InactiveProducts,
		&stats.TotalViews,
		&stats.TotalSales,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("vendor stats: %w", err)
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, stats, nil
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *int64
	BrandID     *int64
}

// UpdateProduct merges the given fields into the caller's product. Only drafts
// and rejected products are editable; editing a rejected product sends it back
// to draft and clears the rejection reason. The slug never changes.
func UpdateProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64, in UpdateProductInput) (*models.Product, error) {
	if !caller.CanSellProducts() {
		return nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}

	var updated *models.Product
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		lockQuery := `SELECT ` + productColumns + ` FROM products
			WHERE id = $1 AND seller_id = $2
			FOR UPDATE`

		product, err := scanProduct(tx.QueryRowContext(ctx, lockQuery, id, caller.ID))
		if err != nil {
			if err == sql.ErrNoRows {
				return catalog.NotFound("Product not found.")
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if !catalog.Editable(product.Status) {
			return catalog.InvalidTransition(fmt.Sprintf(
				"You can only edit products in 'draft' or 'rejected' status. Current status: %s.",
				product.Status))
		}

		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return catalog.BadInput("Product name is required.")
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Stock != nil {
			product.Stock = *in.Stock
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.BrandID != nil {
			product.BrandID = in.BrandID
		}

		// Any successful edit of a rejected product resets it for re-review.
		status := product.Status
		reason := product.RejectionReason
		if product.Status == models.StatusRejected {
			status = models.StatusDraft
			reason = ""
		}

		updateQuery := `
			UPDATE products
			SET name = $1, description = $2, price = $3, stock = $4,
				category_id = $5, brand_id = $6, status = $7, rejection_reason = $8,
				updated_at = NOW()
			WHERE id = $9
			RETURNING ` + productColumns

		updated, err = scanProduct(tx.QueryRowContext(ctx, updateQuery,
			product.Name, product.Description, product.Price, product.Stock,
			product.CategoryID, product.BrandID, status, reason, product.ID))
		if err != nil {
			if database.ClassifyError(err) == database.ErrorClassConstraint {
				return catalog.BadInput("Category or brand does not exist.")
			}
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Images, err = ListProductImages(ctx, db, updated.ID); err != nil {
		return nil, err
	}

	return updated, nil
}

// SubmitProduct moves the caller's draft to pending moderation. All violated
// submission rules are reported together so the vendor can fix everything in
// one pass. The status write is guarded on the status read under the same row
// lock, so a racing transition cannot slip through.
func SubmitProduct(ctx context.Context, db *sql.DB, caller catalog.Actor, id int64) (*models.Product, error) {
	if !caller.CanSellProducts() {
		return nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}

	var submitted *models.Product
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		lockQuery := `SELECT ` + productColumns + ` FROM products
			WHERE id = $1 AND seller_id = $2
			FOR UPDATE`

		product, err := scanProduct(tx.QueryRowContext(ctx, lockQuery, id, caller.ID))
		if err != nil {
			if err == sql.ErrNoRows {
				return catalog.NotFound("Product not found.")
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if !catalog.CanTransition(product.Status, models.StatusPending) {
			return catalog.InvalidTransition("Only products in 'draft' status can be submitted for approval.")
		}

		var imageCount int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM product_images WHERE product_id = $1`, product.ID,
		).Scan(&imageCount); err != nil {
			return fmt.Errorf("count product images: %w", err)
		}

		if violations := catalog.SubmissionViolations(product, imageCount); len(violations) > 0 {
			return catalog.ValidationFailed(violations)
		}

		updateQuery := `
			UPDATE products
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING ` + productColumns

		submitted, err = scanProduct(tx.QueryRowContext(ctx, updateQuery,
			models.StatusPending, product.ID, models.StatusDraft))
		if err != nil {
			if err == sql.ErrNoRows {
				return catalog.InvalidTransition("Only products in 'draft' status can be submitted for approval.")
			}
			return fmt.Errorf("submit product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if submitted.Images, err = ListProductImages(ctx, db, submitted.ID); err != nil {
		return nil, err
	}

	return submitted, nil
}
