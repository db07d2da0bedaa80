package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

// RegisterInput carries the data needed to open a password account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string // empty means domain.RoleUser; only the CLI sets it
}

// ProviderIdentity is the identity returned by an external OAuth provider.
type ProviderIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// LoginResult is returned by every sign-in path. When MFARequired is true,
// Token is empty and ChallengeToken must be exchanged with a TOTP code.
type LoginResult struct {
	Token          string
	User           *domain.User
	MFARequired    bool
	ChallengeToken string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	LoginWithProvider(ctx context.Context, identity ProviderIdentity) (*LoginResult, error)
	VerifyLoginMFA(ctx context.Context, challengeToken, code string) (*LoginResult, error)
}

// MFAEnrollment is everything a user needs to add the account to an
// authenticator app.
type MFAEnrollment struct {
	Secret     string
	OTPAuthURL string
	QRCodePNG  []byte
}

type MFAService interface {
	Enroll(ctx context.Context, userID string) (*MFAEnrollment, error)
	Activate(ctx context.Context, userID, code string) error
	Disable(ctx context.Context, userID, code string) error
}

// UpdateSettingsInput uses pointers so that omitted fields are left unchanged.
type UpdateSettingsInput struct {
	UserID          string
	BusinessName    *string
	BusinessAddress *string
	BusinessEmail   *string
	LogoURL         *string
	AccentColor     *string
	DefaultCurrency *string
	InvoicePrefix   *string
	InvoiceFooter   *string
}

type SettingsService interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	Update(ctx context.Context, in UpdateSettingsInput) (*domain.Settings, error)
}
