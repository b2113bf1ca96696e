package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/go-marketplace/internal/catalog"
	"github.com/safar/go-marketplace/internal/database"
	"github.com/safar/go-marketplace/internal/models"
)

const userColumns = `id, email, username, password_hash, role, phone, address,
	store_name, store_description, is_verified_vendor, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&user.Address,
		&user.StoreName,
		&user.StoreDescription,
		&user.IsVerifiedVendor,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

type CreateUserInput struct {
	Email            string
	Username         string
	PasswordHash     string
	Role             string
	Phone            string
	Address          string
	StoreName        string
	StoreDescription string
}

func CreateUser(ctx context.Context, db *sql.DB, in CreateUserInput) (*models.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash, role, phone, address,
			store_name, store_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query,
		in.Email, in.Username, in.PasswordHash, in.Role,
		in.Phone, in.Address, in.StoreName, in.StoreDescription))
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, catalog.BadInput("Email is already registered.")
		}
		if database.IsUniqueViolation(err, "users_username_key") {
			return nil, catalog.BadInput("Username is already taken.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db *sql.DB, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// VerifyVendor marks a vendor account as eligible to create products. Admin only.
func VerifyVendor(ctx context.Context, db *sql.DB, caller catalog.Actor, vendorID int64) (*models.User, error) {
	if !caller.CanModerateProducts() {
		return nil, catalog.Forbidden("Moderation capability required.")
	}

	query := `
		UPDATE users
		SET is_verified_vendor = TRUE, updated_at = NOW()
		WHERE id = $1 AND role = $2
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query, vendorID, models.RoleVendor))
	if err != nil {
		if err == sql.ErrNoRows {
			var exists bool
			if probeErr := db.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, vendorID,
			).Scan(&exists); probeErr != nil {
				return nil, fmt.Errorf("verify vendor: %w", probeErr)
			}
			if exists {
				return nil, catalog.BadInput("User is not a vendor.")
			}
			return nil, catalog.NotFound("User not found.")
		}
		return nil, fmt.Errorf("verify vendor: %w", err)
	}

	return user, nil
}
