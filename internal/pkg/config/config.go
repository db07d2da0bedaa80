package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sethvargo/go-envconfig"

	"github.com/freelanceos/backend/internal/core/domain"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	BaseURL       string        `env:"BASE_URL,       default=http://localhost:8080"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	SessionSecret string        `env:"SESSION_SECRET"`
	BrandingFile  string        `env:"BRANDING_FILE"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Email     EmailConfig
	S3        S3Config
	OAuth     OAuthConfig
	MFA       MFAConfig
	Scheduler SchedulerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=freelanceos"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type EmailConfig struct {
	Provider     string `env:"EMAIL_PROVIDER,  default=resend"`
	From         string `env:"EMAIL_FROM,      default=FreelanceOS <invoices@resend.dev>"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT,       default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	Workers      int    `env:"EMAIL_WORKERS,   default=4"`
}

// S3Config is optional; invoices are not archived when Bucket is empty.
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION,   default=us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`
}

type MFAConfig struct {
	Issuer      string `env:"MFA_ISSUER,       default=FreelanceOS"`
	AgeIdentity string `env:"MFA_AGE_IDENTITY"`
}

type SchedulerConfig struct {
	Enabled      bool   `env:"SCHEDULER_ENABLED,     default=true"`
	OverdueSweep string `env:"OVERDUE_SWEEP_SPEC,    default=@every 1h"`
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom resolves the configuration against an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks settings that have no safe default. Only serve needs them.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.MFA.AgeIdentity == "" {
		errs = append(errs, errors.New("MFA_AGE_IDENTITY is required"))
	}
	if c.OAuth.GoogleClientID != "" && c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required when Google sign-in is enabled"))
	}
	return errors.Join(errs...)
}

// brandingFile mirrors the TOML layout of BRANDING_FILE.
type brandingFile struct {
	Business struct {
		Name    string `toml:"name"`
		Address string `toml:"address"`
		Email   string `toml:"email"`
		LogoURL string `toml:"logo_url"`
	} `toml:"business"`
	Invoice struct {
		AccentColor string `toml:"accent_color"`
		Currency    string `toml:"currency"`
		Prefix      string `toml:"prefix"`
		Footer      string `toml:"footer"`
	} `toml:"invoice"`
}

// LoadBranding reads install-wide invoice defaults from a TOML file. An empty
// path yields zero settings.
func LoadBranding(path string) (domain.Settings, error) {
	if path == "" {
		return domain.Settings{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("open branding file: %w", err)
	}
	defer f.Close()

	var b brandingFile
	if _, err := toml.NewDecoder(f).Decode(&b); err != nil {
		return domain.Settings{}, fmt.Errorf("decode branding file %s: %w", path, err)
	}
	return domain.Settings{
		BusinessName:    b.Business.Name,
		BusinessAddress: b.Business.Address,
		BusinessEmail:   b.Business.Email,
		LogoURL:         b.Business.LogoURL,
		AccentColor:     b.Invoice.AccentColor,
		DefaultCurrency: b.Invoice.Currency,
		InvoicePrefix:   b.Invoice.Prefix,
		InvoiceFooter:   b.Invoice.Footer,
	}, nil
}
