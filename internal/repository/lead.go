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

type lead struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	Name         string    `db:"name"`
	Relationship string    `db:"relationship"`
	Reason       string    `db:"reason"`
	Stage        string    `db:"stage"`
	CreatedAt    time.Time `db:"created_at"`
}

func (l *lead) toModel() *model.Lead {
	return &model.Lead{
		ID:           l.ID,
		UserID:       l.UserID,
		Name:         l.Name,
		Relationship: model.Relationship(l.Relationship),
		Reason:       l.Reason,
		Stage:        model.LeadStage(l.Stage),
		CreatedAt:    l.CreatedAt,
	}
}

func (r *Repository) GetLeads(ctx context.Context, userID uuid.UUID) ([]*model.Lead, error) {
	query, args, err := squirrel.
		Select("*").
		From("leads").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*lead
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leads: %w", err)
	}

	out := make([]*model.Lead, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}

func (r *Repository) CreateLead(ctx context.Context, l *model.Lead) error {
	query, args, err := squirrel.
		Insert("leads").
		SetMap(leadInsertRow(l)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lead insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

func leadInsertRow(l *model.Lead) map[string]interface{} {
	return map[string]interface{}{
		"id":           l.ID,
		"user_id":      l.UserID,
		"name":         l.Name,
		"relationship": string(l.Relationship),
		"reason":       l.Reason,
		"stage":        string(l.Stage),
		"created_at":   l.CreatedAt,
	}
}

func insertLeadWithTx(ctx context.Context, tx *sqlx.Tx, l *model.Lead) error {
	query, args, err := squirrel.
		Insert("leads").
		SetMap(leadInsertRow(l)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lead insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

// UpdateLead applies the non-nil patch fields. The user id is part of the
// predicate, so nobody can move another user's lead through the pipeline.
func (r *Repository) UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch *model.LeadPatch) (*model.Lead, error) {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Relationship != nil {
		fields["relationship"] = string(*patch.Relationship)
	}
	if patch.Reason != nil {
		fields["reason"] = *patch.Reason
	}
	if patch.Stage != nil {
		fields["stage"] = string(*patch.Stage)
	}
	if len(fields) == 0 {
		return nil, errors.New("empty lead patch")
	}

	query, args, err := squirrel.
		Update("leads").
		SetMap(fields).
		Where(squirrel.Eq{"id": leadID, "user_id": userID}).
		Suffix("RETURNING *").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row lead
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) CountSecuredLeads(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("leads").
		Where(squirrel.Eq{"user_id": userID, "stage": string(model.StageSecured)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, err
	}

	return count, nil
}
