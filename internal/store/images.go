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

const imageColumns = `id, product_id, image_url, alt_text, is_primary, display_order, created_at`

func scanImage(row interface{ Scan(...interface{}) error }) (*models.ProductImage, error) {
	image := &models.ProductImage{}
	err := row.Scan(
		&image.ID,
		&image.ProductID,
		&image.ImageURL,
		&image.AltText,
		&image.IsPrimary,
		&image.DisplayOrder,
		&image.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return image, nil
}

// lockOwnedProduct serializes image mutations per product: every image
// operation takes the product row lock first, so demote/promote pairs from
// concurrent requests cannot interleave. An ownership miss reads as not found.
func lockOwnedProduct(ctx context.Context, tx *sql.Tx, caller catalog.Actor, productID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE id = $1 AND seller_id = $2 FOR UPDATE`,
		productID, caller.ID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.NotFound("Product not found.")
		}
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}

type AddImageInput struct {
	ImageURL     string
	AltText      string
	IsPrimary    bool
	DisplayOrder int
}

// AddProductImage inserts an image for the caller's product. The first image
// is always primary regardless of the request; a later image explicitly asking
// for primary wins over the current one (last write wins), with the demotion
// and insert in one transaction.
func AddProductImage(ctx context.Context, db *sql.DB, caller catalog.Actor, productID int64, in AddImageInput) (*models.ProductImage, error) {
	if !caller.CanSellProducts() {
		return nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, catalog.BadInput("Image URL is required.")
	}

	var image *models.ProductImage
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := lockOwnedProduct(ctx, tx, caller, productID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM product_images WHERE product_id = $1`, productID,
		).Scan(&count); err != nil {
			return fmt.Errorf("count product images: %w", err)
		}

		isPrimary := in.IsPrimary
		if count == 0 {
			isPrimary = true
		} else if isPrimary {
			// Demote before insert; the partial unique index would otherwise
			// reject a second primary even inside the transaction.
			if _, err := tx.ExecContext(ctx,
				`UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary`,
				productID); err != nil {
				return fmt.Errorf("demote primary image: %w", err)
			}
		}

		insertQuery := `
			INSERT INTO product_images (product_id, image_url, alt_text, is_primary, display_order, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING ` + imageColumns

		var err error
		image, err = scanImage(tx.QueryRowContext(ctx, insertQuery,
			productID, in.ImageURL, in.AltText, isPrimary, in.DisplayOrder))
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET updated_at = NOW() WHERE id = $1`, productID); err != nil {
			return fmt.Errorf("touch product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return image, nil
}

// DeleteProductImage removes an image. If the primary was deleted and other
// images remain, the next image by the product's default ordering is promoted
// in the same transaction, so the set never observably has images but no
// primary.
func DeleteProductImage(ctx context.Context, db *sql.DB, caller catalog.Actor, productID, imageID int64) error {
	if !caller.CanSellProducts() {
		return catalog.Forbidden("Only vendors can access this endpoint.")
	}

	return database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := lockOwnedProduct(ctx, tx, caller, productID); err != nil {
			return err
		}

		var wasPrimary bool
		err := tx.QueryRowContext(ctx,
			`DELETE FROM product_images WHERE id = $1 AND product_id = $2 RETURNING is_primary`,
			imageID, productID,
		).Scan(&wasPrimary)
		if err != nil {
			if err == sql.ErrNoRows {
				return catalog.NotFound("Image not found.")
			}
			return fmt.Errorf("delete product image: %w", err)
		}

		if wasPrimary {
			promoteQuery := fmt.Sprintf(`
				UPDATE product_images SET is_primary = TRUE
				WHERE id = (
					SELECT id FROM product_images
					WHERE product_id = $1
					ORDER BY %s
					LIMIT 1
				)`, catalog.PrimaryOrderSQL)
			if _, err := tx.ExecContext(ctx, promoteQuery, productID); err != nil {
				return fmt.Errorf("promote next primary image: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET updated_at = NOW() WHERE id = $1`, productID); err != nil {
			return fmt.Errorf("touch product: %w", err)
		}
		return nil
	})
}

// SetPrimaryImage makes the targeted image the product's primary. Demotion and
// promotion run in one transaction under the product row lock; repeating the
// call is a no-op, not an error.
func SetPrimaryImage(ctx context.Context, db *sql.DB, caller catalog.Actor, productID, imageID int64) (*models.ProductImage, error) {
	if !caller.CanSellProducts() {
		return nil, catalog.Forbidden("Only vendors can access this endpoint.")
	}

	var image *models.ProductImage
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		if err := lockOwnedProduct(ctx, tx, caller, productID); err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_images WHERE id = $1 AND product_id = $2)`,
			imageID, productID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check product image: %w", err)
		}
		if !exists {
			return catalog.NotFound("Image not found.")
		}

		// Demote everything but the target first, then promote. The target is
		// excluded from the demotion so an already-primary target stays primary
		// throughout.
		if _, err := tx.ExecContext(ctx,
			`UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary AND id <> $2`,
			productID, imageID); err != nil {
			return fmt.Errorf("demote primary image: %w", err)
		}

		promoteQuery := `
			UPDATE product_images SET is_primary = TRUE
			WHERE id = $1
			RETURNING ` + imageColumns

		var err error
		image, err = scanImage(tx.QueryRowContext(ctx, promoteQuery, imageID))
		if err != nil {
			return fmt.Errorf("promote primary image: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET updated_at = NOW() WHERE id = $1`, productID); err != nil {
			return fmt.Errorf("touch product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return image, nil
}

// ListProductImages returns a product's images in the default ordering.
func ListProductImages(ctx context.Context, db *sql.DB, productID int64) ([]models.ProductImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_images WHERE product_id = $1 ORDER BY %s`,
		imageColumns, catalog.PrimaryOrderSQL)

	rows, err := db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	var images []models.ProductImage
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, *image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return images, nil
}
