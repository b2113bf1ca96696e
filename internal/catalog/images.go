package catalog

import "github.com/safar/go-marketplace/internal/models"

// PrimaryOrderSQL is the product's default image ordering: primary first, then
// explicit display order, then creation time, with id as the final tie-break.
// Every place that picks "the next primary" must use this same ordering.
const PrimaryOrderSQL = "is_primary DESC, display_order ASC, created_at ASC, id ASC"

// ImageBefore is the Go-side counterpart of PrimaryOrderSQL.
func ImageBefore(a, b models.ProductImage) bool {
	if a.IsPrimary != b.IsPrimary {
		return a.IsPrimary
	}
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder < b.DisplayOrder
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// NextPrimary selects the image to promote after the current primary is
// deleted. Returns nil for an empty set: with zero images, zero primaries is
// the only state that satisfies the invariant.
func NextPrimary(images []models.ProductImage) *models.ProductImage {
	if len(images) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(images); i++ {
		if ImageBefore(images[i], images[best]) {
			best = i
		}
	}
	return &images[best]
}
