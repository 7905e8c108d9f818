package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/pkg/jwt"
)

// AuthRepository is the event platform's account endpoint
type AuthRepository interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error)
	Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error)
}

// TokenVerifier decodes bearer tokens issued by the event platform
type TokenVerifier interface {
	Validate(token string) (*jwt.Claims, error)
}

// LoginSession is a successful login
type LoginSession struct {
	Token string          `json:"token"`
	User  *model.UserView `json:"user"`
}

// AuthService handles authentication against the event platform
type AuthService struct {
	repo     AuthRepository
	verifier TokenVerifier
	logger   *slog.Logger
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	Repo     AuthRepository
	Verifier TokenVerifier
	Logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		repo:     cfg.Repo,
		verifier: cfg.Verifier,
		logger:   logger,
	}
}

// Login exchanges credentials for a platform token and the user it names
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*LoginSession, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	result, err := s.repo.Login(ctx, creds)
	if err != nil {
		var remote *model.RemoteError
		if errors.As(err, &remote) && isCredentialRejection(remote.Status) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if result == nil || result.Token == "" {
		return nil, ErrNoTokenIssued
	}

	user := model.NewUser(creds.Email, result.Role)
	if s.verifier != nil {
		if claims, err := s.verifier.Validate(result.Token); err == nil {
			user = userFromClaims(claims, creds.Email, result.Role)
		} else {
			s.logger.Warn("issued token did not verify",
				slog.String("email", creds.Email),
				slog.String("error", err.Error()),
			)
		}
	}

	return &LoginSession{Token: result.Token, User: user.View()}, nil
}

// Register creates an account with the requested role. Unknown or empty
// roles register an attendee.
func (s *AuthService) Register(ctx context.Context, profile model.Profile, rawRole string) (*model.AccountConfirmation, error) {
	profile.Email = strings.TrimSpace(profile.Email)
	if fields := profile.Validate(); len(fields) > 0 {
		return nil, &model.RemoteError{
			Op:     "register",
			Detail: fields[0].Message,
			Fields: fields,
			Kind:   model.ErrValidation,
		}
	}

	role, ok := model.ParseRole(rawRole)
	if !ok {
		role = model.RoleAttendee
	}

	confirmation, err := s.repo.Register(ctx, profile, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("email", profile.Email),
		slog.String("role", string(role)),
	)
	return confirmation, nil
}

// Authenticate turns a bearer token into the user it names
func (s *AuthService) Authenticate(token string) (*model.User, error) {
	if s.verifier == nil {
		return nil, ErrUnauthenticated
	}
	claims, err := s.verifier.Validate(token)
	if err != nil {
		return nil, err
	}
	user := userFromClaims(claims, "", "")
	if user.Email == "" {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func userFromClaims(claims *jwt.Claims, email, role string) *model.User {
	if principal := claims.Principal(); principal != "" {
		email = principal
	}
	roles := claims.RoleNames()
	if role != "" {
		roles = append(roles, role)
	}
	return model.NewUser(email, roles...)
}

func isCredentialRejection(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest
}
