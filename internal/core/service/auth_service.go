package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	minPasswordLength = 8
	mfaChallengeTTL   = 5 * time.Minute
	// PurposeMFA marks a token that can only be exchanged at the MFA step.
	PurposeMFA = "mfa"
)

// AuthService implements registration and the sign-in flows.
type AuthService struct {
	users     ports.UserRepository
	verifier  totpVerifier
	jwtSecret string
	tokenTTL  time.Duration
	clock     Clock
	ids       IDGenerator
	logger    zerolog.Logger
}

type AuthServiceDeps struct {
	Users     ports.UserRepository
	Sealer    ports.SecretSealer
	Guard     ports.ReplayGuard
	JWTSecret string
	TokenTTL  time.Duration
	Clock     Clock
	IDs       IDGenerator
	Logger    zerolog.Logger
}

func NewAuthService(d AuthServiceDeps) *AuthService {
	if d.TokenTTL <= 0 {
		d.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     d.Users,
		verifier:  totpVerifier{sealer: d.Sealer, guard: d.Guard, clock: d.Clock},
		jwtSecret: d.JWTSecret,
		tokenTTL:  d.TokenTTL,
		clock:     d.Clock,
		ids:       d.IDs,
		logger:    d.Logger,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || valueValidator.Var(email, "email") != nil {
		return nil, domain.Invalidf("a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalidf("password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.Invalidf("unknown role %q", role)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.ids.New(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         role,
		Provider:     domain.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// LoginWithProvider signs in an OAuth identity, creating the account on first
// use or linking it to an existing account with the same email.
func (s *AuthService) LoginWithProvider(ctx context.Context, id ports.ProviderIdentity) (*ports.LoginResult, error) {
	email := normalizeEmail(id.Email)
	if email == "" {
		return nil, domain.Invalidf("provider did not return an email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.ProviderID == "" {
			user.ProviderID = id.ProviderID
			if user.Name == "" {
				user.Name = id.Name
			}
			user.UpdatedAt = s.clock.Now()
			if err := s.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("link provider: %w", err)
			}
			s.logger.Info().Str("user_id", user.ID).Str("provider", id.Provider).Msg("provider linked")
		}
	case errors.Is(err, domain.ErrNotFound):
		now := s.clock.Now()
		user = &domain.User{
			ID:         s.ids.New(),
			Email:      email,
			Name:       strings.TrimSpace(id.Name),
			Role:       domain.RoleUser,
			Provider:   id.Provider,
			ProviderID: id.ProviderID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info().Str("user_id", user.ID).Str("provider", id.Provider).Msg("user registered")
	default:
		return nil, err
	}

	return s.issue(user)
}

// VerifyLoginMFA exchanges a challenge token plus a TOTP code for a session token.
func (s *AuthService) VerifyLoginMFA(ctx context.Context, challengeToken, code string) (*ports.LoginResult, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(challengeToken, claims, s.keyFunc, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if purpose, _ := claims["purpose"].(string); purpose != PurposeMFA {
		return nil, domain.ErrInvalidCredentials
	}
	userID, _ := claims["sub"].(string)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.MFA.Enabled {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.verifier.verify(ctx, user.ID, user.MFA.Secret, code); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.LoginResult, error) {
	if user.MFA.Enabled {
		challenge, err := s.sign(jwt.MapClaims{
			"sub":     user.ID,
			"purpose": PurposeMFA,
			"exp":     s.clock.Now().Add(mfaChallengeTTL).Unix(),
		})
		if err != nil {
			return nil, err
		}
		return &ports.LoginResult{User: user, MFARequired: true, ChallengeToken: challenge}, nil
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.clock.Now()
	return s.sign(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
}

func (s *AuthService) sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return []byte(s.jwtSecret), nil
}
