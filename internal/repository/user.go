package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vamo_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

type user struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password_hash"`
	EmailVerified *time.Time `db:"email_verified"`
	Image         string     `db:"image"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (u *user) toModel() *model.User {
	return &model.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt,
	}
}

const uniqueViolation = "23505"

// CreateUser inserts the account row and lazily provisions the per-user
// challenge row in the same transaction, so the first dashboard load never
// races account creation.
func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"id":            u.ID,
				"name":          u.Name,
				"email":         u.Email,
				"password_hash": u.PasswordHash,
				"image":         u.Image,
				"created_at":    u.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		challengeQuery, challengeArgs, err := squirrel.
			Insert("challenges").
			SetMap(defaultChallengeRow(u.ID, time.Now().UTC())).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build challenge insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, challengeQuery, challengeArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert challenge: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u user
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return u.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u user
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return u.toModel(), nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, patch *model.UserPatch) (*model.User, error) {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Image != nil {
		fields["image"] = *patch.Image
	}
	if len(fields) == 0 {
		return r.GetUserByID(ctx, id)
	}

	query, args, err := squirrel.
		Update("users").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, email, password_hash, email_verified, image, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u user
	err = r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return u.toModel(), nil
}

func (r *Repository) CreateVerificationToken(ctx context.Context, t *model.VerificationToken) error {
	query, args, err := squirrel.
		Insert("verification_tokens").
		SetMap(map[string]interface{}{
			"identifier": t.Identifier,
			"token":      t.Token,
			"expires":    t.Expires,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert verification token: %w", err)
	}
	return nil
}

// ConsumeVerificationToken deletes the token row and returns its identifier.
// The delete and the read are one statement, so a token never works twice.
// Expired tokens are removed but reported as expired.
func (r *Repository) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	query, args, err := squirrel.
		Delete("verification_tokens").
		Where(squirrel.Eq{"token": token}).
		Suffix("RETURNING identifier, expires").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", err
	}

	var row struct {
		Identifier string    `db:"identifier"`
		Expires    time.Time `db:"expires"`
	}
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	if time.Now().After(row.Expires) {
		return "", ErrTokenExpired
	}

	return row.Identifier, nil
}

func (r *Repository) MarkEmailVerified(ctx context.Context, email string) error {
	query, args, err := squirrel.
		Update("users").
		Set("email_verified", time.Now().UTC()).
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

func (r *Repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query, args, err := squirrel.
		Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
