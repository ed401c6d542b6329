package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mail"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/middleware/auth"
)

const (
	msgUsernameMismatch = "username does not match the registered email"
	msgUsernameTaken    = "A user with that username already exists."
	msgEmailTaken       = "A user with that email already exists."
	msgInvalidEmail     = "invalid email"
	msgInvalidCode      = "invalid confirmation_code"
)

type AuthService interface {
	// RequestCode finds or creates the user keyed by email and mails a new
	// confirmation code, replacing any earlier one.
	RequestCode(ctx context.Context, email, username string) error
	// ExchangeCode trades a valid code for a bearer token. Codes are single use.
	ExchangeCode(ctx context.Context, email, code string) (string, error)
	// Authenticate resolves a bearer token to its stored user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	mailer  mail.Mailer
	from    string
	codeTTL time.Duration
	now     func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	mailer mail.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		from:    cfg.MailFrom,
		codeTTL: cfg.ConfirmationCodeTTL,
		now:     time.Now,
	}
}

func (s *authService) RequestCode(ctx context.Context, email, username string) error {
	user, err := s.findOrCreate(ctx, email, username)
	if err != nil {
		return err
	}

	code := auth.NewConfirmationCode()
	hash, err := auth.HashCode(code)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.users.StoreCode(ctx, user.ID, hash, s.now()); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, mail.ConfirmationCode(s.from, user.Email, code)); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	metrics.ConfirmationCodesIssued.Inc()
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("confirmation code issued")
	return nil
}

// findOrCreate treats the email as the identity key. A known email must come
// with its registered username; an unknown email must not reuse a username.
func (s *authService) findOrCreate(ctx context.Context, email, username string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if user.Username != username {
			return nil, NewValidationError("username", msgUsernameMismatch)
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, NewValidationError("username", msgUsernameTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{Username: username, Email: email, Role: models.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("username", msgUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ExchangeCode(ctx context.Context, email, code string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewValidationError("email", msgInvalidEmail)
		}
		return "", err
	}

	if !s.codeValid(user, code) {
		return "", NewValidationError("confirmation_code", msgInvalidCode)
	}

	ok, err := s.users.ConsumeCode(ctx, user.ID, user.ConfirmationCodeHash, s.now())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", NewValidationError("confirmation_code", msgInvalidCode)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssued.Inc()
	return token, nil
}

func (s *authService) codeValid(user *models.User, code string) bool {
	if user.ConfirmationCodeHash == "" || user.CodeIssuedAt == nil || code == "" {
		return false
	}
	if s.codeTTL > 0 && s.now().Sub(*user.CodeIssuedAt) > s.codeTTL {
		return false
	}
	return auth.VerifyCode(user.ConfirmationCodeHash, code) == nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}
