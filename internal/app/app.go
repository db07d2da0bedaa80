// Package app wires configuration, infrastructure and services together.
// Both the HTTP server and the CLI commands build their dependencies here.
package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freelanceos/backend/internal/core/ports"
	"github.com/freelanceos/backend/internal/core/service"
	mongodb "github.com/freelanceos/backend/internal/infrastructure/db/mongo"
	redisdb "github.com/freelanceos/backend/internal/infrastructure/db/redis"
	"github.com/freelanceos/backend/internal/infrastructure/mail"
	"github.com/freelanceos/backend/internal/infrastructure/pdf"
	"github.com/freelanceos/backend/internal/infrastructure/queue"
	"github.com/freelanceos/backend/internal/infrastructure/scheduler"
	"github.com/freelanceos/backend/internal/infrastructure/secrets"
	"github.com/freelanceos/backend/internal/infrastructure/storage"
	"github.com/freelanceos/backend/internal/pkg/config"
)

const totpReplayPrefix = "freelanceos:totp:"

// Services groups every core service behind its port.
type Services struct {
	Auth      ports.AuthService
	MFA       ports.MFAService
	Settings  ports.SettingsService
	Clients   ports.ClientService
	Projects  ports.ProjectService
	Payments  ports.PaymentService
	Invoices  ports.InvoiceService
	Reminders ports.ReminderService
	Scopes    ports.ScopeService
	Dashboard ports.DashboardService
	Timeline  ports.TimelineService
}

// App owns the connections and background workers of one process.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Mongo    *mongo.Client
	DB       *mongo.Database
	Redis    *goredis.Client
	Services Services

	dispatcher *queue.Dispatcher
	sweeper    *scheduler.Scheduler
}

// New connects to MongoDB and Redis and builds the service graph. The caller
// must call Close.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a := &App{Config: cfg, Log: log, Mongo: client, DB: db, Redis: rdb}
	if err := a.build(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, log := a.Config, a.Log

	branding, err := config.LoadBranding(cfg.BrandingFile)
	if err != nil {
		return err
	}

	var sealer ports.SecretSealer
	if cfg.MFA.AgeIdentity != "" {
		s, err := secrets.NewAgeSealer(cfg.MFA.AgeIdentity)
		if err != nil {
			return err
		}
		sealer = s
	}

	var archive ports.InvoiceArchive
	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Archive(ctx, storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return err
		}
		archive = s3
	}

	sender, err := mail.NewSender(mail.Config{
		Provider:     cfg.Email.Provider,
		From:         cfg.Email.From,
		ResendAPIKey: cfg.Email.ResendAPIKey,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUser:     cfg.Email.SMTPUser,
		SMTPPass:     cfg.Email.SMTPPass,
	})
	if err != nil {
		log.Warn().Err(err).Msg("email delivery disabled")
		sender = mail.NewLogSender(log)
	}
	a.dispatcher = queue.NewDispatcher(cfg.Email.Workers, sender, log.With().Str("component", "email").Logger())

	var (
		clock = service.RealClock{}
		ids   = service.UUIDGenerator{}
		guard = redisdb.NewReplayGuard(a.Redis, totpReplayPrefix)

		users     = mongodb.NewUserRepository(a.DB)
		clients   = mongodb.NewClientRepository(a.DB)
		projects  = mongodb.NewProjectRepository(a.DB)
		payments  = mongodb.NewPaymentRepository(a.DB)
		reminders = mongodb.NewReminderRepository(a.DB)
		scopes    = mongodb.NewScopeRepository(a.DB)
		events    = mongodb.NewTimelineRepository(a.DB)
	)

	timeline := service.NewTimelineService(events, clock, ids, log)
	settings := service.NewSettingsService(users, branding, clock, log)
	paymentSvc := service.NewPaymentService(payments, projects, settings, timeline, clock, ids, log)
	reminderSvc := service.NewReminderService(service.ReminderServiceDeps{
		Reminders: reminders,
		Projects:  projects,
		Clients:   clients,
		Emails:    a.dispatcher,
		Timeline:  timeline,
		Clock:     clock,
		IDs:       ids,
		Logger:    log,
	})

	a.Services = Services{
		Auth: service.NewAuthService(service.AuthServiceDeps{
			Users:     users,
			Sealer:    sealer,
			Guard:     guard,
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
			Clock:     clock,
			IDs:       ids,
			Logger:    log,
		}),
		MFA:      service.NewMFAService(users, sealer, guard, cfg.MFA.Issuer, clock, log),
		Settings: settings,
		Clients:  service.NewClientService(clients, timeline, clock, ids, log),
		Projects: service.NewProjectService(projects, clients, timeline, clock, ids, log),
		Payments: paymentSvc,
		Invoices: service.NewInvoiceService(service.InvoiceServiceDeps{
			Payments: payments,
			Projects: projects,
			Clients:  clients,
			Settings: settings,
			Renderer: pdf.NewInvoiceRenderer(),
			Archive:  archive,
			Emails:   a.dispatcher,
			Timeline: timeline,
			Clock:    clock,
			Logger:   log,
		}),
		Reminders: reminderSvc,
		Scopes:    service.NewScopeService(scopes, projects, timeline, clock, ids, log),
		Dashboard: service.NewDashboardService(service.DashboardServiceDeps{
			Users:     users,
			Clients:   clients,
			Projects:  projects,
			Payments:  payments,
			Events:    events,
			Reminders: reminderSvc,
			Clock:     clock,
			Logger:    log,
		}),
		Timeline: timeline,
	}

	if cfg.Scheduler.Enabled {
		a.sweeper, err = scheduler.New(
			cfg.Scheduler.OverdueSweep,
			paymentSvc,
			scheduler.NewRedisLocker(a.Redis),
			log.With().Str("component", "scheduler").Logger(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Start launches the email workers and, when enabled, the overdue sweep
// schedule. The schedule stops when ctx is cancelled; the workers run until
// Drain.
func (a *App) Start(ctx context.Context) {
	a.dispatcher.Start(ctx)
	if a.sweeper != nil {
		a.sweeper.Start(ctx)
	}
}

// Drain stops accepting email and waits for queued messages to be delivered.
func (a *App) Drain(ctx context.Context) error {
	return a.dispatcher.Shutdown(ctx)
}

// SweepOnce runs a single lock-guarded overdue sweep outside the schedule.
func (a *App) SweepOnce(ctx context.Context) (int, error) {
	if a.sweeper != nil {
		return a.sweeper.RunOnce(ctx)
	}
	return a.Services.Payments.SweepOverdue(ctx)
}

// Close disconnects from MongoDB and Redis.
func (a *App) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.Log.Warn().Err(err).Msg("disconnect mongo")
		}
	}
}
