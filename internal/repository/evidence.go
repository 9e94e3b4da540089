package repository

import (
	"context"
	"fmt"
	"time"

	"vamo_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type evidence struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Type      string    `db:"type"`
	Content   string    `db:"content"`
	Date      string    `db:"date"`
	Timestamp time.Time `db:"timestamp"`
}

func (e *evidence) toModel() *model.Evidence {
	return &model.Evidence{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      model.EvidenceType(e.Type),
		Content:   e.Content,
		Date:      e.Date,
		Timestamp: e.Timestamp,
	}
}

// AppendEvidence stores one evidence row and advances the owner's challenge
// in a single transaction. The challenge row is locked before advance runs,
// so two same-day submissions racing each other serialize and only one of
// them is treated as the first of the day.
func (r *Repository) AppendEvidence(ctx context.Context, ev *model.Evidence, advance func(*model.Challenge) model.ChallengeProgress) (*model.Challenge, error) {
	var updated *model.Challenge

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := getChallengeForUpdate(ctx, tx, ev.UserID)
		if err != nil {
			return err
		}

		progress := advance(current)

		insertQuery, insertArgs, err := squirrel.
			Insert("evidence").
			SetMap(map[string]interface{}{
				"id":        ev.ID,
				"user_id":   ev.UserID,
				"type":      string(ev.Type),
				"content":   ev.Content,
				"date":      ev.Date,
				"timestamp": ev.Timestamp,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build evidence insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert evidence: %w", err)
		}

		updateQuery, updateArgs, err := squirrel.
			Update("challenges").
			SetMap(map[string]interface{}{
				"streak":               progress.Streak,
				"last_commit_date":     progress.LastCommitDate,
				"daily_task_completed": progress.DailyTaskCompleted,
			}).
			Set("pineapples", squirrel.Expr("pineapples + ?", progress.PineappleDelta)).
			Set("find_customers_unlocked", squirrel.Expr("find_customers_unlocked OR ?", progress.FindCustomersUnlocked)).
			Where(squirrel.Eq{"user_id": ev.UserID}).
			Suffix("RETURNING *").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build challenge update query: %w", err)
		}

		var c challenge
		err = tx.GetContext(ctx, &c, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update challenge: %w", err)
		}

		updated = c.toModel()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *Repository) GetEvidence(ctx context.Context, userID uuid.UUID) ([]*model.Evidence, error) {
	query, args, err := squirrel.
		Select("*").
		From("evidence").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("timestamp DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*evidence
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	out := make([]*model.Evidence, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}
