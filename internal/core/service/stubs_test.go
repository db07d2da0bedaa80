package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// ---- clock & ids ----

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// ---- users ----

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: make(map[string]*domain.User)} }

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

// ---- clients ----

type stubClientRepo struct {
	mu      sync.Mutex
	clients map[string]*domain.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, ownerID, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClientRepo) List(_ context.Context, f ports.ClientFilter) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Client
	for _, c := range r.clients {
		if c.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Email != "" && !strings.EqualFold(c.Email, f.Email) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.Company), strings.ToLower(f.Search)) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.clients[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return domain.ErrClientNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

// ---- projects ----

type stubProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, ownerID, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProjectRepo) FindByIDUnscoped(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ProjectFilter) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, p := range r.projects {
		if p.OwnerID != f.OwnerID {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsStatus[T comparable](list []T, v T) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

// ---- payments ----

type stubPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.IdempotencyKey != "" {
		for _, existing := range r.payments {
			if existing.OwnerID == p.OwnerID && existing.IdempotencyKey == p.IdempotencyKey {
				return domain.ErrIdempotencyKeyTaken
			}
		}
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, ownerID, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPaymentRepo) FindByIdempotencyKey(_ context.Context, ownerID, key string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.OwnerID == ownerID && p.IdempotencyKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) List(_ context.Context, f ports.PaymentFilter) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.ProjectID != "" && p.ProjectID != f.ProjectID {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
			continue
		}
		if !f.DueBefore.IsZero() && (p.DueDate == nil || !p.DueDate.Before(f.DueBefore)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPaymentRepo) Update(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *stubPaymentRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrPaymentNotFound
	}
	delete(r.payments, id)
	return nil
}

// ---- reminders ----

type stubReminderRepo struct {
	mu        sync.Mutex
	reminders map[string]*domain.Reminder
}

func newStubReminderRepo() *stubReminderRepo {
	return &stubReminderRepo{reminders: make(map[string]*domain.Reminder)}
}

func (r *stubReminderRepo) Create(_ context.Context, rem *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *stubReminderRepo) FindByID(_ context.Context, ownerID, id string) (*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok || rem.OwnerID != ownerID {
		return nil, domain.ErrReminderNotFound
	}
	cp := *rem
	return &cp, nil
}

func (r *stubReminderRepo) List(_ context.Context, f ports.ReminderFilter) ([]*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if rem.OwnerID != f.OwnerID {
			continue
		}
		if !f.IncludeSent && rem.IsSent {
			continue
		}
		if f.ProjectID != "" && rem.ProjectID != f.ProjectID {
			continue
		}
		if !f.DateAfter.IsZero() && !rem.ReminderDate.After(f.DateAfter) {
			continue
		}
		if !f.DateNotAfter.IsZero() && rem.ReminderDate.After(f.DateNotAfter) {
			continue
		}
		cp := *rem
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out, nil
}

func (r *stubReminderRepo) Update(_ context.Context, rem *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[rem.ID]; !ok {
		return domain.ErrReminderNotFound
	}
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *stubReminderRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok || rem.OwnerID != ownerID {
		return domain.ErrReminderNotFound
	}
	delete(r.reminders, id)
	return nil
}

// ---- scopes ----

type stubScopeRepo struct {
	mu       sync.Mutex
	counters map[string]int
	versions []*domain.ScopeVersion
}

func newStubScopeRepo() *stubScopeRepo { return &stubScopeRepo{counters: make(map[string]int)} }

func (r *stubScopeRepo) NextVersionNumber(_ context.Context, projectID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[projectID]++
	return r.counters[projectID], nil
}

func (r *stubScopeRepo) Create(_ context.Context, v *domain.ScopeVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.versions = append(r.versions, &cp)
	return nil
}

func (r *stubScopeRepo) ListByProject(_ context.Context, ownerID, projectID string) ([]*domain.ScopeVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ScopeVersion
	for _, v := range r.versions {
		if v.OwnerID == ownerID && v.ProjectID == projectID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *stubScopeRepo) FindLatest(ctx context.Context, ownerID, projectID string) (*domain.ScopeVersion, error) {
	list, _ := r.ListByProject(ctx, ownerID, projectID)
	if len(list) == 0 {
		return nil, domain.ErrScopeNotFound
	}
	return list[0], nil
}

func (r *stubScopeRepo) FindByVersion(ctx context.Context, ownerID, projectID string, version int) (*domain.ScopeVersion, error) {
	list, _ := r.ListByProject(ctx, ownerID, projectID)
	for _, v := range list {
		if v.VersionNumber == version {
			return v, nil
		}
	}
	return nil, domain.ErrScopeNotFound
}

func (r *stubScopeRepo) FindByShareToken(_ context.Context, token string) (*domain.ScopeVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ShareToken == token {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrScopeNotFound
}

// ---- timeline ----

type stubTimelineRepo struct {
	mu     sync.Mutex
	events []*domain.TimelineEvent
	err    error
}

func (r *stubTimelineRepo) Insert(_ context.Context, e *domain.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}

func (r *stubTimelineRepo) ListByProject(_ context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TimelineEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.events[i]
		if e.OwnerID == ownerID && e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubTimelineRepo) ListRecent(_ context.Context, ownerID string, limit int) ([]*domain.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TimelineEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].OwnerID == ownerID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *stubTimelineRepo) LastActivity(_ context.Context, ownerID string, projectIDs []string) (map[string]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Time)
	for _, e := range r.events {
		if e.OwnerID != ownerID || !containsStatus(projectIDs, e.ProjectID) {
			continue
		}
		if e.CreatedAt.After(out[e.ProjectID]) {
			out[e.ProjectID] = e.CreatedAt
		}
	}
	return out, nil
}

func (r *stubTimelineRepo) byType(t domain.EventType) []*domain.TimelineEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TimelineEvent
	for _, e := range r.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// ---- infrastructure ----

type stubEmailQueue struct {
	mu   sync.Mutex
	sent []ports.EmailMessage
}

func (q *stubEmailQueue) Enqueue(msg ports.EmailMessage) {
	q.mu.Lock()
	q.sent = append(q.sent, msg)
	q.mu.Unlock()
}

type stubRenderer struct {
	last ports.InvoiceDocument
}

func (r *stubRenderer) Render(doc ports.InvoiceDocument) ([]byte, error) {
	r.last = doc
	return []byte("%PDF-1.3 " + doc.InvoiceNumber), nil
}

type stubArchive struct {
	keys []string
	err  error
}

func (a *stubArchive) Put(_ context.Context, ownerID, filename string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	key := ownerID + "/" + filename
	a.keys = append(a.keys, key)
	return key, nil
}

// stubSealer reverses nothing; it only tags the value so tests can tell
// sealed from plain text.
type stubSealer struct{}

func (stubSealer) Seal(plain string) (string, error) { return "sealed:" + plain, nil }

func (stubSealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, "sealed:") {
		return "", fmt.Errorf("not sealed")
	}
	return strings.TrimPrefix(sealed, "sealed:"), nil
}

type stubGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (g *stubGuard) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = make(map[string]bool)
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

// ---- fixture ----

// fixture wires every service against in-memory repositories.
type fixture struct {
	clock     *fakeClock
	ids       *seqIDs
	users     *stubUserRepo
	clients   *stubClientRepo
	projects  *stubProjectRepo
	payments  *stubPaymentRepo
	reminders *stubReminderRepo
	scopes    *stubScopeRepo
	events    *stubTimelineRepo
	emails    *stubEmailQueue
	renderer  *stubRenderer
	archive   *stubArchive
	guard     *stubGuard

	timeline  *TimelineService
	settings  *SettingsService
	clientSvc *ClientService
	projSvc   *ProjectService
	paySvc    *PaymentService
	invSvc    *InvoiceService
	remSvc    *ReminderService
	scopeSvc  *ScopeService
	dashSvc   *DashboardService
	authSvc   *AuthService
	mfaSvc    *MFAService
}

func newFixture() *fixture {
	f := &fixture{
		clock:     newFakeClock(testNow),
		ids:       &seqIDs{},
		users:     newStubUserRepo(),
		clients:   newStubClientRepo(),
		projects:  newStubProjectRepo(),
		payments:  newStubPaymentRepo(),
		reminders: newStubReminderRepo(),
		scopes:    newStubScopeRepo(),
		events:    &stubTimelineRepo{},
		emails:    &stubEmailQueue{},
		renderer:  &stubRenderer{},
		archive:   &stubArchive{},
		guard:     &stubGuard{},
	}
	log := zerolog.Nop()

	f.timeline = NewTimelineService(f.events, f.clock, f.ids, log)
	f.settings = NewSettingsService(f.users, domain.Settings{BusinessName: "Default Studio"}, f.clock, log)
	f.clientSvc = NewClientService(f.clients, f.timeline, f.clock, f.ids, log)
	f.projSvc = NewProjectService(f.projects, f.clients, f.timeline, f.clock, f.ids, log)
	f.paySvc = NewPaymentService(f.payments, f.projects, f.settings, f.timeline, f.clock, f.ids, log)
	f.invSvc = NewInvoiceService(InvoiceServiceDeps{
		Payments: f.payments,
		Projects: f.projects,
		Clients:  f.clients,
		Settings: f.settings,
		Renderer: f.renderer,
		Archive:  f.archive,
		Emails:   f.emails,
		Timeline: f.timeline,
		Clock:    f.clock,
		Logger:   log,
	})
	f.remSvc = NewReminderService(ReminderServiceDeps{
		Reminders: f.reminders,
		Projects:  f.projects,
		Clients:   f.clients,
		Emails:    f.emails,
		Timeline:  f.timeline,
		Clock:     f.clock,
		IDs:       f.ids,
		Logger:    log,
	})
	f.scopeSvc = NewScopeService(f.scopes, f.projects, f.timeline, f.clock, f.ids, log)
	f.dashSvc = NewDashboardService(DashboardServiceDeps{
		Users:     f.users,
		Clients:   f.clients,
		Projects:  f.projects,
		Payments:  f.payments,
		Events:    f.events,
		Reminders: f.remSvc,
		Clock:     f.clock,
		Logger:    log,
	})
	f.authSvc = NewAuthService(AuthServiceDeps{
		Users:     f.users,
		Sealer:    stubSealer{},
		Guard:     f.guard,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Clock:     f.clock,
		IDs:       f.ids,
		Logger:    log,
	})
	f.mfaSvc = NewMFAService(f.users, stubSealer{}, f.guard, "FreelanceOS", f.clock, log)
	return f
}

const owner = "owner-1"

func (f *fixture) seedUser(id string) *domain.User {
	u := &domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleUser, CreatedAt: testNow.AddDate(0, -3, 0)}
	_ = f.users.Create(context.Background(), u)
	return u
}

func (f *fixture) seedClient(ownerID, email string) *domain.Client {
	c := &domain.Client{ID: f.ids.New(), OwnerID: ownerID, Name: "Client " + email, Email: email, Status: domain.ClientActive, CreatedAt: testNow}
	_ = f.clients.Create(context.Background(), c)
	return c
}

func (f *fixture) seedProject(ownerID, clientID string, status domain.ProjectStatus) *domain.Project {
	p := &domain.Project{ID: f.ids.New(), OwnerID: ownerID, ClientID: clientID, Name: "Project", Status: status, CreatedAt: f.clock.Now()}
	_ = f.projects.Create(context.Background(), p)
	return p
}
