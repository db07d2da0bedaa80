package handler

import (
	"encoding/base64"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Provider:   u.Provider,
		MFAEnabled: u.MFA.Enabled,
		CreatedAt:  u.CreatedAt,
	}
}

func toAuthResponse(res *ports.LoginResult) authResponse {
	if res.MFARequired {
		return authResponse{MFARequired: true, ChallengeToken: res.ChallengeToken}
	}
	return authResponse{Token: res.Token, User: toUserResponse(res.User)}
}

func toClientResponse(cl *domain.Client) clientResponse {
	return clientResponse{
		ID:            cl.ID,
		Name:          cl.Name,
		Email:         cl.Email,
		Company:       cl.Company,
		Phone:         cl.Phone,
		Status:        string(cl.Status),
		Notes:         cl.Notes,
		LastContactAt: cl.LastContactAt,
		CreatedAt:     cl.CreatedAt,
		UpdatedAt:     cl.UpdatedAt,
	}
}

func toClientResponses(in []*domain.Client) []clientResponse {
	out := make([]clientResponse, 0, len(in))
	for _, cl := range in {
		out = append(out, toClientResponse(cl))
	}
	return out
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		UIStatus:    string(p.Status.UIStatus()),
		Budget:      p.Budget,
		Currency:    p.Currency,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(in []*domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(in))
	for _, p := range in {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	items := make([]lineItemResponse, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		items = append(items, lineItemResponse{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Total:       li.Total(),
		})
	}
	return paymentResponse{
		ID:                 p.ID,
		ProjectID:          p.ProjectID,
		ClientID:           p.ClientID,
		MilestoneName:      p.MilestoneName,
		Amount:             p.Amount,
		AmountPaid:         p.AmountPaid,
		Outstanding:        p.Outstanding(),
		Currency:           p.Currency,
		Status:             string(p.Status),
		StatusLabel:        p.Status.Label(),
		StatusColor:        p.Status.Color(),
		PaymentMethod:      p.PaymentMethod,
		DueDate:            p.DueDate,
		PaidDate:           p.PaidDate,
		InvoiceNumber:      p.InvoiceNumber,
		LineItems:          items,
		InvoiceNotes:       p.InvoiceNotes,
		InvoiceGeneratedAt: p.InvoiceGeneratedAt,
		InvoiceSentAt:      p.InvoiceSentAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toPaymentResponses(in []*domain.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(in))
	for _, p := range in {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

func toReminderResponse(r *domain.Reminder) reminderResponse {
	return reminderResponse{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		ClientID:     r.ClientID,
		PaymentID:    r.PaymentID,
		Title:        r.Title,
		Message:      r.Message,
		ReminderDate: r.ReminderDate,
		ReminderType: string(r.ReminderType),
		TypeLabel:    r.ReminderType.Label(),
		Status:       string(r.Status),
		IsSent:       r.IsSent,
		SentAt:       r.SentAt,
		SnoozedUntil: r.SnoozedUntil,
		CreatedAt:    r.CreatedAt,
	}
}

func toReminderResponses(in []*domain.Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(in))
	for _, r := range in {
		out = append(out, toReminderResponse(r))
	}
	return out
}

func toScopeResponse(v *domain.ScopeVersion) scopeResponse {
	return scopeResponse{
		ID:            v.ID,
		ProjectID:     v.ProjectID,
		VersionNumber: v.VersionNumber,
		Deliverables:  nonNil(v.Deliverables),
		OutOfScope:    nonNil(v.OutOfScope),
		Assumptions:   nonNil(v.Assumptions),
		Notes:         v.Notes,
		ShareToken:    v.ShareToken,
		CreatedAt:     v.CreatedAt,
	}
}

func toScopeResponses(in []*domain.ScopeVersion) []scopeResponse {
	out := make([]scopeResponse, 0, len(in))
	for _, v := range in {
		out = append(out, toScopeResponse(v))
	}
	return out
}

// toSharedScopeResponse hides the share token; the reader already holds it.
func toSharedScopeResponse(s *ports.SharedScope) sharedScopeResponse {
	scope := toScopeResponse(s.Version)
	scope.ShareToken = ""
	return sharedScopeResponse{
		ProjectName:     s.ProjectName,
		ProjectStatus:   string(s.ProjectStatus),
		ProjectUIStatus: string(s.ProjectStatus.UIStatus()),
		Scope:           scope,
	}
}

func toRevenueResponse(r *ports.RevenueReport) revenueResponse {
	buckets := make([]revenueBucketResponse, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		buckets = append(buckets, revenueBucketResponse{
			Label:       b.Label,
			Start:       b.Start,
			Revenue:     b.Revenue,
			Outstanding: b.Outstanding,
		})
	}
	return revenueResponse{
		Range:       string(r.Range),
		From:        r.From,
		To:          r.To,
		Revenue:     r.Revenue,
		Outstanding: r.Outstanding,
		Buckets:     buckets,
	}
}

func toAtRiskResponses(in []ports.AtRiskProject) []atRiskResponse {
	out := make([]atRiskResponse, 0, len(in))
	for _, r := range in {
		item := atRiskResponse{
			ProjectID:    r.ProjectID,
			ProjectName:  r.ProjectName,
			ClientID:     r.ClientID,
			Kind:         string(r.Kind),
			DaysOverdue:  r.DaysOverdue,
			DaysInactive: r.DaysInactive,
			Amount:       r.Amount,
		}
		if !r.LastActivity.IsZero() {
			last := r.LastActivity
			item.LastActivity = &last
		}
		out = append(out, item)
	}
	return out
}

func toDashboardResponse(s *ports.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		ActiveClients:     s.ActiveClients,
		ActiveProjects:    s.ActiveProjects,
		DueReminders:      toReminderResponses(s.DueReminders),
		UpcomingReminders: toReminderResponses(s.UpcomingReminders),
		RevenueThisMonth:  s.RevenueThisMonth,
		Outstanding:       s.Outstanding,
		AtRisk:            toAtRiskResponses(s.AtRisk),
	}
}

func toTimelineResponses(in []*domain.TimelineEvent) []timelineEventResponse {
	out := make([]timelineEventResponse, 0, len(in))
	for _, e := range in {
		out = append(out, timelineEventResponse{
			ID:          e.ID,
			ProjectID:   e.ProjectID,
			ClientID:    e.ClientID,
			EventType:   string(e.EventType),
			Title:       e.Title,
			Description: e.Description,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

func toEnrollResponse(e *ports.MFAEnrollment) mfaEnrollResponse {
	return mfaEnrollResponse{
		Secret:     e.Secret,
		OTPAuthURL: e.OTPAuthURL,
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(e.QRCodePNG),
	}
}

// --- Request → Service input ---

func toLineItems(in []lineItemRequest) []domain.LineItem {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.LineItem, 0, len(in))
	for _, li := range in {
		out = append(out, domain.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
		})
	}
	return out
}

func clientStatusPtr(s *string) *domain.ClientStatus {
	if s == nil {
		return nil
	}
	v := domain.ClientStatus(*s)
	return &v
}

func projectStatusPtr(s *string) *domain.ProjectStatus {
	if s == nil {
		return nil
	}
	v := domain.ProjectStatus(*s)
	return &v
}

func uiStatusPtr(s *string) *domain.UIStatus {
	if s == nil {
		return nil
	}
	v := domain.UIStatus(*s)
	return &v
}

func reminderTypePtr(s *string) *domain.ReminderType {
	if s == nil {
		return nil
	}
	v := domain.ReminderType(*s)
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toSettingsResponse(s *domain.Settings) settingsResponse {
	return settingsResponse{
		BusinessName:    s.BusinessName,
		BusinessAddress: s.BusinessAddress,
		BusinessEmail:   s.BusinessEmail,
		LogoURL:         s.LogoURL,
		AccentColor:     s.AccentColor,
		DefaultCurrency: s.DefaultCurrency,
		InvoicePrefix:   s.InvoicePrefix,
		InvoiceFooter:   s.InvoiceFooter,
	}
}
