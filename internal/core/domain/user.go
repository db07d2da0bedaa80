package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// MFA holds the TOTP state of an account. Secrets are stored sealed, never in clear.
type MFA struct {
	Enabled       bool       `json:"enabled" bson:"enabled"`
	Secret        string     `json:"-" bson:"secret,omitempty"`
	PendingSecret string     `json:"-" bson:"pending_secret,omitempty"`
	EnabledAt     *time.Time `json:"enabled_at,omitempty" bson:"enabled_at,omitempty"`
}

// Settings carries the account-level branding and invoice defaults.
type Settings struct {
	BusinessName    string `json:"business_name" bson:"business_name"`
	BusinessAddress string `json:"business_address" bson:"business_address"`
	BusinessEmail   string `json:"business_email" bson:"business_email"`
	LogoURL         string `json:"logo_url" bson:"logo_url"`
	AccentColor     string `json:"accent_color" bson:"accent_color"`
	DefaultCurrency string `json:"default_currency" bson:"default_currency"`
	InvoicePrefix   string `json:"invoice_prefix" bson:"invoice_prefix"`
	InvoiceFooter   string `json:"invoice_footer" bson:"invoice_footer"`
}

// User models an authenticated account. Every other record is owned by one User.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Role         string    `json:"role" bson:"role"`
	Provider     string    `json:"provider" bson:"provider"`
	ProviderID   string    `json:"-" bson:"provider_id,omitempty"`
	MFA          MFA       `json:"mfa" bson:"mfa"`
	Settings     Settings  `json:"settings" bson:"settings"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
