package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safar/go-marketplace/internal/models"
)

// Submission-blocking rule messages, reported in this fixed order.
const (
	MsgImageRequired    = "At least one product image is required."
	MsgDescriptionEmpty = "Product description cannot be empty."
	MsgPriceNotPositive = "Product price must be greater than zero."
	MsgStockNegative    = "Product stock cannot be negative."
)

// transitions is the full set of reachable status edges. Everything else is an
// invalid transition. The inactive status is representable but unreachable.
var transitions = map[string][]string{
	models.StatusDraft:    {models.StatusPending},
	models.StatusPending:  {models.StatusActive, models.StatusRejected},
	models.StatusRejected: {models.StatusDraft},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether the owning vendor may modify the product's fields.
// Drafts are freely editable; a rejected product becomes a draft again on its
// first successful edit. Pending and active products are frozen. Image
// mutations are not gated on this: the owner may manage images at any status.
func Editable(status string) bool {
	return status == models.StatusDraft || status == models.StatusRejected
}

// SubmissionViolations checks the draft→pending preconditions and returns every
// violated rule at once rather than failing on the first. An empty result means
// the product is ready for moderation.
func SubmissionViolations(p *models.Product, imageCount int) []string {
	var violations []string
	if imageCount == 0 {
		violations = append(violations, MsgImageRequired)
	}
	if strings.TrimSpace(p.Description) == "" {
		violations = append(violations, MsgDescriptionEmpty)
	}
	if !p.Price.GreaterThan(decimal.Zero) {
		violations = append(violations, MsgPriceNotPositive)
	}
	if p.Stock < 0 {
		violations = append(violations, MsgStockNegative)
	}
	return violations
}
