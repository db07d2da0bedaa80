package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items, Count: len(items)}
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type mfaLoginRequest struct {
	ChallengeToken string `json:"challenge_token" validate:"required"`
	Code           string `json:"code"            validate:"required,len=6,numeric"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Provider   string    `json:"provider"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type authResponse struct {
	Token          string        `json:"token,omitempty"`
	User           *userResponse `json:"user,omitempty"`
	MFARequired    bool          `json:"mfa_required,omitempty"`
	ChallengeToken string        `json:"challenge_token,omitempty"`
}

// --- Clients ---

type createClientRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
	Status  string `json:"status"  validate:"omitempty,oneof=active inactive archived lead"`
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Notes   *string `json:"notes"`
	Status  *string `json:"status"  validate:"omitempty,oneof=active inactive archived lead"`
}

type logContactRequest struct {
	Note string `json:"note"`
}

type clientResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Company       string     `json:"company"`
	Phone         string     `json:"phone"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type importClientsResponse struct {
	Imported []clientResponse `json:"imported"`
	Errors   []string         `json:"errors"`
}

// --- Projects ---

type createProjectRequest struct {
	ClientID    string     `json:"client_id"   validate:"required"`
	Name        string     `json:"name"        validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"      validate:"omitempty,oneof=planning in_progress review completed on_hold cancelled"`
	Budget      float64    `json:"budget"      validate:"gte=0"`
	Currency    string     `json:"currency"    validate:"omitempty,len=3"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=planning in_progress review completed on_hold cancelled"`
	UIStatus    *string    `json:"ui_status"   validate:"omitempty,oneof=lead active waiting completed"`
	Budget      *float64   `json:"budget"      validate:"omitempty,gte=0"`
	Currency    *string    `json:"currency"    validate:"omitempty,len=3"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type projectResponse struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	UIStatus    string     `json:"ui_status"`
	Budget      float64    `json:"budget"`
	Currency    string     `json:"currency"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type overdueCheckResponse struct {
	Marked int `json:"marked"`
}

// --- Payments ---

type createPaymentRequest struct {
	ProjectID     string     `json:"project_id"     validate:"required"`
	MilestoneName string     `json:"milestone_name" validate:"required"`
	Amount        float64    `json:"amount"         validate:"required,gt=0"`
	Currency      string     `json:"currency"       validate:"omitempty,len=3"`
	DueDate       *time.Time `json:"due_date"`
}

type updatePaymentRequest struct {
	MilestoneName *string    `json:"milestone_name"`
	Amount        *float64   `json:"amount"   validate:"omitempty,gt=0"`
	Currency      *string    `json:"currency" validate:"omitempty,len=3"`
	DueDate       *time.Time `json:"due_date"`
}

type updatePaymentStatusRequest struct {
	Status        string     `json:"status"         validate:"required,oneof=pending paid partial overdue cancelled"`
	AmountPaid    *float64   `json:"amount_paid"    validate:"omitempty,gte=0"`
	PaidDate      *time.Time `json:"paid_date"`
	PaymentMethod string     `json:"payment_method"`
}

type lineItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity"    validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price"  validate:"gte=0"`
}

type generateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number"`
	LineItems     []lineItemRequest `json:"line_items" validate:"dive"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         string            `json:"notes"`
}

type sendEmailRequest struct {
	Email     string `json:"email"      validate:"omitempty,email"`
	SaveEmail bool   `json:"save_email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

type lineItemResponse struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type paymentResponse struct {
	ID                 string             `json:"id"`
	ProjectID          string             `json:"project_id"`
	ClientID           string             `json:"client_id"`
	MilestoneName      string             `json:"milestone_name"`
	Amount             float64            `json:"amount"`
	AmountPaid         float64            `json:"amount_paid"`
	Outstanding        float64            `json:"outstanding"`
	Currency           string             `json:"currency"`
	Status             string             `json:"status"`
	StatusLabel        string             `json:"status_label"`
	StatusColor        string             `json:"status_color"`
	PaymentMethod      string             `json:"payment_method,omitempty"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	PaidDate           *time.Time         `json:"paid_date,omitempty"`
	InvoiceNumber      string             `json:"invoice_number,omitempty"`
	LineItems          []lineItemResponse `json:"line_items"`
	InvoiceNotes       string             `json:"invoice_notes,omitempty"`
	InvoiceGeneratedAt *time.Time         `json:"invoice_generated_at,omitempty"`
	InvoiceSentAt      *time.Time         `json:"invoice_sent_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// --- Reminders ---

type createReminderRequest struct {
	ProjectID    string    `json:"project_id"`
	ClientID     string    `json:"client_id"`
	PaymentID    string    `json:"payment_id"`
	Title        string    `json:"title"         validate:"required"`
	Message      string    `json:"message"`
	ReminderDate time.Time `json:"reminder_date" validate:"required"`
	ReminderType string    `json:"reminder_type" validate:"omitempty,oneof=follow_up payment deadline general"`
}

type updateReminderRequest struct {
	Title        *string    `json:"title"`
	Message      *string    `json:"message"`
	ReminderDate *time.Time `json:"reminder_date"`
	ReminderType *string    `json:"reminder_type" validate:"omitempty,oneof=follow_up payment deadline general"`
}

type snoozeRequest struct {
	Days int `json:"days" validate:"required,gt=0,max=365"`
}

type reminderResponse struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id,omitempty"`
	ClientID     string     `json:"client_id,omitempty"`
	PaymentID    string     `json:"payment_id,omitempty"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	ReminderDate time.Time  `json:"reminder_date"`
	ReminderType string     `json:"reminder_type"`
	TypeLabel    string     `json:"type_label"`
	Status       string     `json:"status"`
	IsSent       bool       `json:"is_sent"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// --- Scopes ---

type createScopeRequest struct {
	Deliverables []string `json:"deliverables"`
	OutOfScope   []string `json:"out_of_scope"`
	Assumptions  []string `json:"assumptions"`
	Notes        string   `json:"notes"`
}

type scopeResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	VersionNumber int       `json:"version_number"`
	Deliverables  []string  `json:"deliverables"`
	OutOfScope    []string  `json:"out_of_scope"`
	Assumptions   []string  `json:"assumptions"`
	Notes         string    `json:"notes"`
	ShareToken    string    `json:"share_token,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type sharedScopeResponse struct {
	ProjectName     string        `json:"project_name"`
	ProjectStatus   string        `json:"project_status"`
	ProjectUIStatus string        `json:"project_ui_status"`
	Scope           scopeResponse `json:"scope"`
}

// --- Dashboard & timeline ---

type revenueBucketResponse struct {
	Label       string    `json:"label"`
	Start       time.Time `json:"start"`
	Revenue     float64   `json:"revenue"`
	Outstanding float64   `json:"outstanding"`
}

type revenueResponse struct {
	Range       string                  `json:"range"`
	From        time.Time               `json:"from"`
	To          time.Time               `json:"to"`
	Revenue     float64                 `json:"revenue"`
	Outstanding float64                 `json:"outstanding"`
	Buckets     []revenueBucketResponse `json:"buckets"`
}

type atRiskResponse struct {
	ProjectID    string     `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	ClientID     string     `json:"client_id"`
	Kind         string     `json:"kind"`
	DaysOverdue  int        `json:"days_overdue,omitempty"`
	DaysInactive int        `json:"days_inactive,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	Amount       float64    `json:"amount,omitempty"`
}

type dashboardResponse struct {
	ActiveClients     int                `json:"active_clients"`
	ActiveProjects    int                `json:"active_projects"`
	DueReminders      []reminderResponse `json:"due_reminders"`
	UpcomingReminders []reminderResponse `json:"upcoming_reminders"`
	RevenueThisMonth  float64            `json:"revenue_this_month"`
	Outstanding       float64            `json:"outstanding"`
	AtRisk            []atRiskResponse   `json:"at_risk"`
}

type timelineEventResponse struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"project_id,omitempty"`
	ClientID    string         `json:"client_id,omitempty"`
	EventType   string         `json:"event_type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// --- Account ---

type settingsRequest struct {
	BusinessName    *string `json:"business_name"`
	BusinessAddress *string `json:"business_address"`
	BusinessEmail   *string `json:"business_email"`
	LogoURL         *string `json:"logo_url"      validate:"omitempty,url"`
	AccentColor     *string `json:"accent_color"`
	DefaultCurrency *string `json:"default_currency"`
	InvoicePrefix   *string `json:"invoice_prefix"`
	InvoiceFooter   *string `json:"invoice_footer"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type mfaEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code"` // data URL of a PNG
}

type mfaStatusResponse struct {
	Enabled bool `json:"enabled"`
}

type settingsResponse struct {
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	BusinessEmail   string `json:"business_email"`
	LogoURL         string `json:"logo_url"`
	AccentColor     string `json:"accent_color"`
	DefaultCurrency string `json:"default_currency"`
	InvoicePrefix   string `json:"invoice_prefix"`
	InvoiceFooter   string `json:"invoice_footer"`
}

// --- Admin ---

type sweepResponse struct {
	Marked int `json:"marked"`
}
