package service

import (
	"context"
	"errors"
	"strings"

	"vamo_backend/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("an account with this email already exists")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrTokenExpired      = errors.New("verification token expired")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("not enough pineapples")
	ErrCustomersLocked   = errors.New("find customers is locked until a 10 day streak")
	ErrNotRevealed       = errors.New("customer must be revealed before adding to leads")
	ErrAlreadyConverted  = errors.New("customer has already been added to leads")
)

// ValidationError carries every violated constraint of a request, so the
// client can surface them all at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

type Service struct {
	*UserService
	*ChallengeService
	*EvidenceService
	*LeadService
	*CustomerService
}

func NewService(users *UserService, challenges *ChallengeService, evidence *EvidenceService, leads *LeadService, customers *CustomerService) *Service {
	return &Service{
		UserService:      users,
		ChallengeService: challenges,
		EvidenceService:  evidence,
		LeadService:      leads,
		CustomerService:  customers,
	}
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, patch *model.UserPatch) (*model.User, error)
	CreateVerificationToken(ctx context.Context, t *model.VerificationToken) error
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type ChallengeRepository interface {
	GetOrCreateChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error)
	ResetChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error)
	UpdateChallenge(ctx context.Context, userID uuid.UUID, patch *model.ChallengePatch) (*model.Challenge, error)
}

type EvidenceRepository interface {
	GetOrCreateChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error)
	AppendEvidence(ctx context.Context, ev *model.Evidence, advance func(*model.Challenge) model.ChallengeProgress) (*model.Challenge, error)
	GetEvidence(ctx context.Context, userID uuid.UUID) ([]*model.Evidence, error)
}

type LeadRepository interface {
	GetLeads(ctx context.Context, userID uuid.UUID) ([]*model.Lead, error)
	CreateLead(ctx context.Context, l *model.Lead) error
	UpdateLead(ctx context.Context, userID, leadID uuid.UUID, patch *model.LeadPatch) (*model.Lead, error)
	CountSecuredLeads(ctx context.Context, userID uuid.UUID) (int, error)
}

type CustomerRepository interface {
	GetOrCreateChallenge(ctx context.Context, userID uuid.UUID) (*model.Challenge, error)
	GetOrSeedCustomers(ctx context.Context, userID uuid.UUID) ([]*model.PotentialCustomer, error)
	RevealCustomer(ctx context.Context, userID, customerID uuid.UUID, cost int) (*model.PotentialCustomer, int, error)
	ConvertCustomerToLead(ctx context.Context, userID, customerID uuid.UUID) (*model.Lead, error)
}

// Mailer delivers account notifications. Failures are logged and never fail
// the operation that triggered the mail.
type Mailer interface {
	SendVerificationEmail(email, token string) error
	SendPasswordResetEmail(email, token string) error
}
