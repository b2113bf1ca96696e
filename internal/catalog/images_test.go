package catalog

import (
	"testing"
	"time"

	"github.com/safar/go-marketplace/internal/models"
)

func imageAt(id int64, primary bool, order int, created time.Time) models.ProductImage {
	return models.ProductImage{ID: id, IsPrimary: primary, DisplayOrder: order, CreatedAt: created}
}

func TestImageBefore(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		a, b models.ProductImage
		want bool
	}{
		{"primary first", imageAt(2, true, 5, base), imageAt(1, false, 0, base), true},
		{"lower order first", imageAt(2, false, 1, base), imageAt(1, false, 2, base), true},
		{"older first", imageAt(2, false, 0, base), imageAt(1, false, 0, base.Add(time.Minute)), true},
		{"id tie-break", imageAt(1, false, 0, base), imageAt(2, false, 0, base), true},
	}

	for _, tc := range cases {
		if got := ImageBefore(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: ImageBefore = %v, want %v", tc.name, got, tc.want)
		}
		if ImageBefore(tc.b, tc.a) {
			t.Errorf("%s: ordering is not antisymmetric", tc.name)
		}
	}
}

func TestNextPrimary(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := NextPrimary(nil); got != nil {
		t.Fatalf("expected nil for empty set, got %+v", got)
	}

	images := []models.ProductImage{
		imageAt(3, false, 2, base),
		imageAt(4, false, 1, base.Add(time.Hour)),
		imageAt(5, false, 1, base),
	}
	if got := NextPrimary(images); got == nil || got.ID != 5 {
		t.Fatalf("expected image 5 (lowest order, oldest), got %+v", got)
	}
}
