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

type potentialCustomer struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	Name         string    `db:"name"`
	Background   string    `db:"background"`
	Reason       string    `db:"reason"`
	Revealed     bool      `db:"revealed"`
	AddedToLeads bool      `db:"added_to_leads"`
	CreatedAt    time.Time `db:"created_at"`
}

func (c *potentialCustomer) toModel() *model.PotentialCustomer {
	return &model.PotentialCustomer{
		ID:           c.ID,
		UserID:       c.UserID,
		Name:         c.Name,
		Background:   c.Background,
		Reason:       c.Reason,
		Revealed:     c.Revealed,
		AddedToLeads: c.AddedToLeads,
		CreatedAt:    c.CreatedAt,
	}
}

// seedCustomerPool is the fixed prospect pool every user starts with.
var seedCustomerPool = []model.PotentialCustomer{
	{Name: "Sarah Chen", Background: "Product Manager at TechCorp", Reason: "Has expressed interest in productivity tools and manages a team of 15"},
	{Name: "Marcus Johnson", Background: "Founder of StartupXYZ", Reason: "Recently tweeted about needing better customer tracking solutions"},
	{Name: "Elena Rodriguez", Background: "Head of Sales at GrowthCo", Reason: "Attended your webinar and asked follow-up questions"},
	{Name: "David Park", Background: "Engineering Manager", Reason: "Mentioned pain points that align with your product in a LinkedIn post"},
	{Name: "Priya Sharma", Background: "CEO of DesignStudio", Reason: "Your mutual connection recommended you reach out"},
	{Name: "Alex Thompson", Background: "Director of Operations", Reason: "Downloaded your lead magnet and engaged with 3+ emails"},
	{Name: "Lisa Wang", Background: "VP of Marketing", Reason: "Fits your ICP perfectly and has budget authority"},
	{Name: "James Miller", Background: "Small Business Owner", Reason: "Posted in a Facebook group asking for solutions like yours"},
}

// GetOrSeedCustomers returns the user's prospect pool, inserting the fixed
// pool on first access.
func (r *Repository) GetOrSeedCustomers(ctx context.Context, userID uuid.UUID) ([]*model.PotentialCustomer, error) {
	customers, err := r.getCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(customers) > 0 {
		return customers, nil
	}

	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		builder := squirrel.
			Insert("potential_customers").
			Columns("id", "user_id", "name", "background", "reason", "revealed", "added_to_leads", "created_at")

		now := time.Now().UTC()
		for i, seed := range seedCustomerPool {
			// Stagger created_at to keep the pool order stable.
			builder = builder.Values(uuid.New(), userID, seed.Name, seed.Background, seed.Reason, false, false, now.Add(time.Duration(i)*time.Millisecond))
		}

		query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build customer seed query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.getCustomers(ctx, userID)
}

func (r *Repository) getCustomers(ctx context.Context, userID uuid.UUID) ([]*model.PotentialCustomer, error) {
	query, args, err := squirrel.
		Select("*").
		From("potential_customers").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*potentialCustomer
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}

	out := make([]*model.PotentialCustomer, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}

func getCustomerForUpdate(ctx context.Context, tx *sqlx.Tx, userID, customerID uuid.UUID) (*potentialCustomer, error) {
	query, args, err := squirrel.
		Select("*").
		From("potential_customers").
		Where(squirrel.Eq{"id": customerID, "user_id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row potentialCustomer
	err = tx.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &row, nil
}

// RevealCustomer charges the reveal cost and unmasks the customer as one
// unit. A second call for an already revealed customer is a no-op and never
// charges again. Returns the customer and the pineapple balance after the
// call.
func (r *Repository) RevealCustomer(ctx context.Context, userID, customerID uuid.UUID, cost int) (*model.PotentialCustomer, int, error) {
	var revealed *model.PotentialCustomer
	var balance int

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		row, err := getCustomerForUpdate(ctx, tx, userID, customerID)
		if err != nil {
			return err
		}

		if row.Revealed {
			current, err := getChallengeForUpdate(ctx, tx, userID)
			if err != nil {
				return err
			}
			revealed = row.toModel()
			balance = current.Pineapples
			return nil
		}

		balance, err = spendPineapplesWithTx(ctx, tx, userID, cost)
		if err != nil {
			return err
		}

		query, args, err := squirrel.
			Update("potential_customers").
			Set("revealed", true).
			Where(squirrel.Eq{"id": customerID, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to reveal customer: %w", err)
		}

		row.Revealed = true
		revealed = row.toModel()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return revealed, balance, nil
}

// ConvertCustomerToLead creates the lead and flips added_to_leads inside one
// transaction with the customer row locked, so a retried call cannot create
// a duplicate lead.
func (r *Repository) ConvertCustomerToLead(ctx context.Context, userID, customerID uuid.UUID) (*model.Lead, error) {
	var created *model.Lead

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		row, err := getCustomerForUpdate(ctx, tx, userID, customerID)
		if err != nil {
			return err
		}

		if !row.Revealed {
			return ErrCustomerNotRevealed
		}
		if row.AddedToLeads {
			return ErrCustomerAlreadyConverted
		}

		l := &model.Lead{
			ID:           uuid.New(),
			UserID:       userID,
			Name:         row.Name,
			Relationship: model.RelationshipDontKnow,
			Reason:       row.Reason,
			Stage:        model.StageSetupCall,
			CreatedAt:    time.Now().UTC(),
		}

		if err := insertLeadWithTx(ctx, tx, l); err != nil {
			return err
		}

		query, args, err := squirrel.
			Update("potential_customers").
			Set("added_to_leads", true).
			Where(squirrel.Eq{"id": customerID, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to mark customer as converted: %w", err)
		}

		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
