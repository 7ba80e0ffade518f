package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/query"
	"github.com/mmynk/fintrack/internal/storage"
)

// CreateUser inserts a new user into the database and sets user.ID.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	plan := s.builder.InsertUser(user.Email, user.PasswordHash, user.CreatedAt)

	err := s.db.QueryRowContext(ctx, plan.SQL, plan.Args...).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user %q: %w", user.Email, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.getUser(ctx, s.builder.UserByEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.getUser(ctx, s.builder.UserByID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *Store) getUser(ctx context.Context, plan query.Plan) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, plan.SQL, plan.Args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
