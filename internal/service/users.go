package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"vamo_backend/internal/model"
	"vamo_backend/internal/repository"
	"vamo_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost           = 12
	minPasswordLen       = 8
	verificationTokenTTL = 24 * time.Hour

	// Reset tokens share the verification_tokens table, telling the two
	// apart by an identifier prefix. They expire much faster.
	resetTokenTTL    = time.Hour
	resetTokenPrefix = "reset:"
)

type UserService struct {
	repo   UserRepository
	mailer Mailer
}

func NewUserService(repo UserRepository, mailer Mailer) *UserService {
	return &UserService{
		repo:   repo,
		mailer: mailer,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Signup creates the account and sends the verification email best-effort:
// a mail delivery failure is logged but never rolls the signup back, the
// user can resend later.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	var violations []string
	if input.Name == "" {
		violations = append(violations, "name must not be empty")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		violations = append(violations, "email must be a valid address")
	}
	if len(input.Password) < minPasswordLen {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if violations != nil {
		return nil, &ValidationError{Violations: violations}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.repo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerification(ctx, u.Email)

	return u, nil
}

func (s *UserService) sendVerification(ctx context.Context, email string) {
	log := logger.Logger()

	token, err := generateToken()
	if err != nil {
		log.Error("failed to generate verification token", zap.Error(err))
		return
	}

	err = s.repo.CreateVerificationToken(ctx, &model.VerificationToken{
		Identifier: email,
		Token:      token,
		Expires:    time.Now().Add(verificationTokenTTL),
	})
	if err != nil {
		log.Error("failed to store verification token", zap.Error(err))
		return
	}

	if err := s.mailer.SendVerificationEmail(email, token); err != nil {
		log.Error("failed to send verification email",
			zap.Error(err),
			zap.String("email", email))
	}
}

// ResendVerification issues a fresh token for an unverified account.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.EmailVerified != nil {
		return nil
	}

	s.sendVerification(ctx, u.Email)
	return nil
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	identifier, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrTokenExpired):
			return ErrTokenExpired
		}
		return err
	}

	// A password reset token cannot verify an email.
	if strings.HasPrefix(identifier, resetTokenPrefix) {
		return ErrNotFound
	}

	return s.repo.MarkEmailVerified(ctx, identifier)
}

// ForgotPassword issues a reset token for the account. Unknown addresses are
// a silent no-op, the caller's response never reveals whether an email is
// registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	err = s.repo.CreateVerificationToken(ctx, &model.VerificationToken{
		Identifier: resetTokenPrefix + u.Email,
		Token:      token,
		Expires:    time.Now().Add(resetTokenTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(u.Email, token); err != nil {
		logger.Logger().Error("failed to send password reset email",
			zap.Error(err),
			zap.String("email", u.Email))
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLen {
		return &ValidationError{Violations: []string{
			fmt.Sprintf("password must be at least %d characters", minPasswordLen),
		}}
	}

	identifier, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrTokenExpired):
			return ErrTokenExpired
		}
		return err
	}

	email, ok := strings.CutPrefix(identifier, resetTokenPrefix)
	if !ok {
		// An email verification token cannot reset a password.
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Login checks the credentials and returns the account. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch *model.UserPatch) (*model.User, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, &ValidationError{Violations: []string{"name must not be empty"}}
	}

	u, err := s.repo.UpdateUserProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
