package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/store"
)

func TestAddImage_FirstIsForcedPrimary(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	first := addImage(t, db, vendor, product.ID, store.AddImageInput{IsPrimary: false})
	if !first.IsPrimary {
		t.Fatal("first image must be primary regardless of the request")
	}

	second := addImage(t, db, vendor, product.ID, store.AddImageInput{})
	if second.IsPrimary {
		t.Fatal("second image must not become primary by default")
	}
	if got := primaryCount(t, db, product.ID); got != 1 {
		t.Fatalf("expected exactly one primary, got %d", got)
	}
}

func TestAddImage_ExplicitPrimaryWins(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	first := addImage(t, db, vendor, product.ID, store.AddImageInput{})
	second := addImage(t, db, vendor, product.ID, store.AddImageInput{IsPrimary: true})

	if !second.IsPrimary {
		t.Fatal("explicitly requested primary must win")
	}
	images, err := store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	for _, image := range images {
		if image.ID == first.ID && image.IsPrimary {
			t.Fatal("previous primary was not demoted")
		}
	}
	if got := primaryCount(t, db, product.ID); got != 1 {
		t.Fatalf("expected exactly one primary, got %d", got)
	}
}

func TestSetPrimary_MovesFlagAndIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	a := addImage(t, db, vendor, product.ID, store.AddImageInput{})
	b := addImage(t, db, vendor, product.ID, store.AddImageInput{})

	promoted, err := store.SetPrimaryImage(ctx, db, vendor, product.ID, b.ID)
	if err != nil {
		t.Fatalf("set primary: %v", err)
	}
	if !promoted.IsPrimary {
		t.Fatal("target was not promoted")
	}

	// Second call is a no-op, not an error.
	promoted, err = store.SetPrimaryImage(ctx, db, vendor, product.ID, b.ID)
	if err != nil {
		t.Fatalf("repeated set primary: %v", err)
	}
	if !promoted.IsPrimary {
		t.Fatal("target lost primary on repeat call")
	}

	images, err := store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	for _, image := range images {
		if image.ID == a.ID && image.IsPrimary {
			t.Fatal("old primary still set")
		}
	}
	if got := primaryCount(t, db, product.ID); got != 1 {
		t.Fatalf("expected exactly one primary, got %d", got)
	}
}

func TestDeleteImage_PrimaryHandoff(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	a := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 1})
	b := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 2})

	if _, err := store.SetPrimaryImage(ctx, db, vendor, product.ID, b.ID); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	// Deleting the primary leaves A as the only image; it must be promoted.
	if err := store.DeleteProductImage(ctx, db, vendor, product.ID, b.ID); err != nil {
		t.Fatalf("delete primary: %v", err)
	}
	images, err := store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 1 || images[0].ID != a.ID || !images[0].IsPrimary {
		t.Fatalf("expected sole remaining image promoted, got %+v", images)
	}

	// Deleting the last image is the only state with zero primaries.
	if err := store.DeleteProductImage(ctx, db, vendor, product.ID, a.ID); err != nil {
		t.Fatalf("delete last: %v", err)
	}
	images, err = store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected no images, got %+v", images)
	}
}

func TestDeleteImage_NonPrimaryLeavesPrimaryAlone(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	a := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 1})
	b := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 2})
	addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 3})

	if err := store.DeleteProductImage(ctx, db, vendor, product.ID, b.ID); err != nil {
		t.Fatalf("delete non-primary: %v", err)
	}

	images, err := store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 2 || images[0].ID != a.ID || !images[0].IsPrimary {
		t.Fatalf("primary should be untouched, got %+v", images)
	}
}

func TestDeleteImage_PromotesByDefaultOrdering(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	primary := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 9})
	addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 5})
	early := addImage(t, db, vendor, product.ID, store.AddImageInput{DisplayOrder: 2})

	if err := store.DeleteProductImage(ctx, db, vendor, product.ID, primary.ID); err != nil {
		t.Fatalf("delete primary: %v", err)
	}

	images, err := store.ListProductImages(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 2 || images[0].ID != early.ID || !images[0].IsPrimary {
		t.Fatalf("expected lowest display order promoted, got %+v", images)
	}
	if got := primaryCount(t, db, product.ID); got != 1 {
		t.Fatalf("expected exactly one primary, got %d", got)
	}
}

func TestImages_OwnershipMissReadsAsNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	owner := newVendor(t, db)
	intruder := newVendor(t, db)
	product := newDraft(t, db, owner)
	image := addImage(t, db, owner, product.ID, store.AddImageInput{})

	_, err := store.AddProductImage(ctx, db, intruder, product.ID, store.AddImageInput{
		ImageURL: "https://img.example.com/x.jpg",
	})
	if kindOf(t, err) != catalog.KindNotFound {
		t.Fatalf("expected not found on add, got %v", err)
	}

	if err := store.DeleteProductImage(ctx, db, intruder, product.ID, image.ID); kindOf(t, err) != catalog.KindNotFound {
		t.Fatalf("expected not found on delete, got %v", err)
	}

	_, err = store.SetPrimaryImage(ctx, db, intruder, product.ID, image.ID)
	if kindOf(t, err) != catalog.KindNotFound {
		t.Fatalf("expected not found on set-primary, got %v", err)
	}
}

func TestConcurrentSetPrimary_InvariantHolds(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	vendor := newVendor(t, db)
	product := newDraft(t, db, vendor)

	a := addImage(t, db, vendor, product.ID, store.AddImageInput{})
	b := addImage(t, db, vendor, product.ID, store.AddImageInput{})

	concurrency := 10
	var wg sync.WaitGroup
	errs := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		target := a.ID
		if i%2 == 0 {
			target = b.ID
		}
		wg.Add(1)
		go func(imageID int64) {
			defer wg.Done()
			if _, err := store.SetPrimaryImage(ctx, db, vendor, product.ID, imageID); err != nil {
				errs <- err
			}
		}(target)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("set primary: %v", err)
	}

	if got := primaryCount(t, db, product.ID); got != 1 {
		t.Fatalf("expected exactly one primary after the race, got %d", got)
	}
}
