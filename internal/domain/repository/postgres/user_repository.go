// Package postgres implements the durable user store over a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/gatewatch/auth-service/internal/domain/errors"
	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// UserRepository implements repository.UserStore using PostgreSQL.
type UserRepository struct {
	pool      *pgxpool.Pool
	passwords interfaces.PasswordService
}

// NewUserRepository creates a PostgreSQL-backed user store.
func NewUserRepository(pool *pgxpool.Pool, passwords interfaces.PasswordService) *UserRepository {
	return &UserRepository{pool: pool, passwords: passwords}
}

// AddUser persists a new account. A unique violation on the email primary
// key maps to ErrUserAlreadyExists so the in-memory and durable stores
// report duplicates identically.
func (r *UserRepository) AddUser(ctx context.Context, user models.User) error {
	query := `
		INSERT INTO accounts (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, user.Email.Address(), user.PasswordHash, user.RequiresTwoFA)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domainErrors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, email models.Email) (models.User, error) {
	query := `
		SELECT email, password_hash, requires_2fa
		FROM accounts
		WHERE email = $1
	`
	var (
		address      string
		passwordHash string
		requires2FA  bool
	)
	err := r.pool.QueryRow(ctx, query, email.Address()).Scan(&address, &passwordHash, &requires2FA)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, domainErrors.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	parsed, err := models.ParseEmail(address)
	if err != nil {
		return models.User{}, fmt.Errorf("stored email %q failed to parse: %w", address, err)
	}

	return models.User{
		Email:         parsed,
		PasswordHash:  passwordHash,
		RequiresTwoFA: requires2FA,
	}, nil
}

func (r *UserRepository) ValidateCredentials(ctx context.Context, email models.Email, password models.Password) error {
	user, err := r.GetUser(ctx, email)
	if err != nil {
		return err
	}

	match, err := r.passwords.CheckPasswordHash(ctx, password.Secret(), user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to check password hash: %w", err)
	}
	if !match {
		return domainErrors.ErrInvalidCredentials
	}
	return nil
}

var _ repository.UserStore = (*UserRepository)(nil)
