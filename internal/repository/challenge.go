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
	"github.com/jmoiron/sqlx"
)

type challenge struct {
	UserID                uuid.UUID `db:"user_id"`
	StartDate             time.Time `db:"start_date"`
	Streak                int       `db:"streak"`
	LastCommitDate        *string   `db:"last_commit_date"`
	Pineapples            int       `db:"pineapples"`
	DailyTaskCompleted    bool      `db:"daily_task_completed"`
	FindCustomersUnlocked bool      `db:"find_customers_unlocked"`
	HasSeenOnboarding     bool      `db:"has_seen_onboarding"`
}

func (c *challenge) toModel() *model.Challenge {
	return &model.Challenge{
		UserID:                c.UserID,
		StartDate:             c.StartDate,
		Streak:                c.Streak,
		LastCommitDate:        c.LastCommitDate,
		Pineapples:            c.Pineapples,
		DailyTaskCompleted:    c.DailyTaskCompleted,
		FindCustomersUnlocked: c.FindCustomersUnlocked,
		HasSeenOnboarding:     c.HasSeenOnboarding,
	}
}

func defaultChallengeRow(userID uuid.UUID, startDate time.Time) map[string]interface{} {
	return map[string]interface{}{
		"user_id":                 userID,
		"start_date":              startDate,
		"streak":                  0,
		"last_commit_date":        nil,
		"pineapples":              0,
		"daily_task_completed":    false,
		"find_customers_unlocked": false,
		"has_seen_onboarding":     false,
	}
}

func (r *Repository) GetOrCreateChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error) {
	var c challenge
	query, args, err := squirrel.
		Select("*").
		From("challenges").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &c, query, args...)
	if err == nil {
		return c.toModel(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// First access for this user. ON CONFLICT keeps a concurrent first
	// access from failing on the unique key.
	insertQuery, insertArgs, err := squirrel.
		Insert("challenges").
		SetMap(defaultChallengeRow(userID, time.Now().UTC())).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert challenge: %w", err)
	}

	err = r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		return nil, err
	}

	return c.toModel(), nil
}

// ResetChallenge puts every field back to its default and stamps a fresh
// start date. Used by the explicit "restart challenge" action only.
func (r *Repository) ResetChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error) {
	row := defaultChallengeRow(userID, time.Now().UTC())
	delete(row, "user_id")
	// Onboarding has been seen once, a restart does not replay it.
	delete(row, "has_seen_onboarding")

	query, args, err := squirrel.
		Update("challenges").
		SetMap(row).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING *").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c challenge
	err = r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.toModel(), nil
}

// UpdateChallenge applies the non-nil patch fields. Balance changes are not
// expressible through a patch, they go through the ledger methods.
func (r *Repository) UpdateChallenge(ctx context.Context, userID uuid.UUID, patch *model.ChallengePatch) (*model.Challenge, error) {
	fields := map[string]interface{}{}
	if patch.Streak != nil {
		fields["streak"] = *patch.Streak
	}
	if patch.DailyTaskCompleted != nil {
		fields["daily_task_completed"] = *patch.DailyTaskCompleted
	}
	if patch.HasSeenOnboarding != nil {
		fields["has_seen_onboarding"] = *patch.HasSeenOnboarding
	}
	if len(fields) == 0 {
		return r.GetOrCreateChallenge(ctx, userID)
	}

	query, args, err := squirrel.
		Update("challenges").
		SetMap(fields).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING *").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c challenge
	err = r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.toModel(), nil
}

// AddPineapples credits the balance as a relative increment.
func (r *Repository) AddPineapples(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	query, args, err := squirrel.
		Update("challenges").
		Set("pineapples", squirrel.Expr("pineapples + ?", amount)).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING pineapples").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var balance int
	err = r.db.GetContext(ctx, &balance, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return balance, nil
}

// SpendPineapples debits the balance with a single conditional update, so
// two concurrent spends can never both pass a stale balance check.
func (r *Repository) SpendPineapples(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	var balance int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		balance, err = spendPineapplesWithTx(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func spendPineapplesWithTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int) (int, error) {
	query, args, err := squirrel.
		Update("challenges").
		Set("pineapples", squirrel.Expr("pineapples - ?", amount)).
		Where(squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.GtOrEq{"pineapples": amount},
		}).
		Suffix("RETURNING pineapples").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var balance int
	err = tx.GetContext(ctx, &balance, query, args...)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// No row matched: either the user has no challenge row or the balance
	// was short. Tell the two apart for the caller.
	existsQuery, existsArgs, err := squirrel.
		Select("1").
		From("challenges").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var one int
	err = tx.GetContext(ctx, &one, existsQuery, existsArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return 0, ErrInsufficientBalance
}

func getChallengeForUpdate(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*model.Challenge, error) {
	query, args, err := squirrel.
		Select("*").
		From("challenges").
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c challenge
	err = tx.GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.toModel(), nil
}
