package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/models"
	"github.com/safar/go-marketplace/internal/store"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runMigrations(db *sql.DB) error {
	migrationDir := "../../migrations"
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		filePath := filepath.Join(migrationDir, filename)
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}

func newActor(t *testing.T, db *sql.DB, role string, verified bool) catalog.Actor {
	t.Helper()
	ctx := context.Background()

	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	user, err := store.CreateUser(ctx, db, store.CreateUserInput{
		Email:        tag + "@example.com",
		Username:     "user-" + tag,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create %s user: %v", role, err)
	}

	if verified {
		if _, err := db.ExecContext(ctx,
			`UPDATE users SET is_verified_vendor = TRUE WHERE id = $1`, user.ID); err != nil {
			t.Fatalf("mark vendor verified: %v", err)
		}
		user.IsVerifiedVendor = true
	}

	return catalog.ActorFor(user)
}

func newVendor(t *testing.T, db *sql.DB) catalog.Actor {
	return newActor(t, db, models.RoleVendor, true)
}

func newAdmin(t *testing.T, db *sql.DB) catalog.Actor {
	return newActor(t, db, models.RoleAdmin, false)
}

func newCategory(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	category, err := store.CreateCategory(context.Background(), db, newAdmin(t, db), "Category "+tag, "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category.ID
}

func newBrand(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	brand, err := store.CreateBrand(context.Background(), db, newAdmin(t, db), "Brand "+tag, "", "", "")
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	return brand.ID
}

// newDraft creates a submission-ready draft except that no image is attached.
func newDraft(t *testing.T, db *sql.DB, vendor catalog.Actor) *models.Product {
	t.Helper()
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	product, err := store.CreateProduct(context.Background(), db, vendor, store.CreateProductInput{
		Name:        "Product " + tag,
		Description: "A perfectly fine product",
		Price:       decimal.NewFromInt(25),
		Stock:       3,
		CategoryID:  newCategory(t, db),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func addImage(t *testing.T, db *sql.DB, vendor catalog.Actor, productID int64, in store.AddImageInput) *models.ProductImage {
	t.Helper()
	if in.ImageURL == "" {
		in.ImageURL = "https://img.example.com/" + uuid.NewString() + ".jpg"
	}
	image, err := store.AddProductImage(context.Background(), db, vendor, productID, in)
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	return image
}

func primaryCount(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()
	var count int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM product_images WHERE product_id = $1 AND is_primary`, productID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count primaries: %v", err)
	}
	return count
}
