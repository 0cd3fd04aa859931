package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tagonlink/tagonlink/internal/metrics"
	"github.com/tagonlink/tagonlink/internal/model"
	"github.com/tagonlink/tagonlink/internal/repository"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// Validation errors.
var (
	ErrRegistrationFieldsRequired = newValidationError("email, password and name are required")
	ErrCredentialsRequired        = newValidationError("email and password are required")
	ErrEmailRequired              = newValidationError("email is required")
	ErrResetFieldsRequired        = newValidationError("token and newPassword are required")
	ErrPasswordTooShort           = newValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	ErrEmailTaken                 = newValidationError("email already registered")
	ErrInvalidResetToken          = newValidationError("invalid or expired token")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles account business logic.
type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenCodec
	metrics metrics.Recorder

	// dummyHash is verified against when the email is unknown so both login
	// failures cost one hash verification.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenCodec, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
	}
}

// Session is an issued token together with the user it names.
type Session struct {
	Token string
	User  *model.User
}

// RegisterInput defines input for registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if isBlank(input.Email) || isBlank(input.Password) || isBlank(input.Name) {
		return nil, ErrRegistrationFieldsRequired
	}
	if !longEnough(input.Password) {
		return nil, ErrPasswordTooShort
	}

	_, err := s.users.GetUserByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return &Session{Token: token, User: user}, nil
}

// LoginInput defines input for login.
type LoginInput struct {
	Email    string
	Password string
}

// Login checks credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if isBlank(input.Email) || isBlank(input.Password) {
		return nil, ErrCredentialsRequired
	}

	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = s.hasher.Verify(input.Password, s.dummy())
			s.metrics.IncLogin(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !ok {
		s.metrics.IncLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return &Session{Token: token, User: user}, nil
}

// ForgotPassword issues a reset token when the email belongs to an account.
// It returns a nil session for unknown emails; callers must respond the
// same way in both cases. No email is sent.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*Session, error) {
	if isBlank(email) {
		return nil, ErrEmailRequired
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue reset token: %w", err)
	}

	return &Session{Token: token, User: user}, nil
}

// ResetPasswordInput defines input for a password reset.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPassword replaces the password of the user named by the token.
// Any token from Issue is accepted, including login tokens.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) (string, error) {
	if isBlank(input.Token) || isBlank(input.NewPassword) {
		return "", ErrResetFieldsRequired
	}
	if !longEnough(input.NewPassword) {
		return "", ErrPasswordTooShort
	}

	userID, err := s.tokens.Validate(input.Token)
	if err != nil {
		return "", ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidResetToken
		}
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	s.metrics.IncPasswordReset()

	return userID, nil
}

// Verify returns the user behind an already-validated token.
func (s *AuthService) Verify(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("tagonlink-dummy-password")
	})
	return s.dummyHash
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func longEnough(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}
