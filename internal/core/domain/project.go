package domain

import "time"

// ProjectStatus is the stored lifecycle state of a project and the only
// source of truth for it.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// UIStatus is the coarse display vocabulary shown on boards and lists.
type UIStatus string

const (
	UILead      UIStatus = "lead"
	UIActive    UIStatus = "active"
	UIWaiting   UIStatus = "waiting"
	UICompleted UIStatus = "completed"
)

// AllProjectStatuses lists every stored status in lifecycle order.
var AllProjectStatuses = []ProjectStatus{
	ProjectPlanning, ProjectInProgress, ProjectReview, ProjectOnHold, ProjectCompleted, ProjectCancelled,
}

var projectToUI = map[ProjectStatus]UIStatus{
	ProjectPlanning:   UILead,
	ProjectInProgress: UIActive,
	ProjectReview:     UIActive,
	ProjectOnHold:     UIWaiting,
	ProjectCompleted:  UICompleted,
	ProjectCancelled:  UICompleted,
}

// The reverse table only covers the four UI states; review and cancelled
// cannot be produced from it.
var uiToProject = map[UIStatus]ProjectStatus{
	UILead:      ProjectPlanning,
	UIActive:    ProjectInProgress,
	UIWaiting:   ProjectOnHold,
	UICompleted: ProjectCompleted,
}

func (s ProjectStatus) IsValid() bool {
	_, ok := projectToUI[s]
	return ok
}

// UIStatus projects the stored status onto the display vocabulary.
// Unknown statuses are shown as lead.
func (s ProjectStatus) UIStatus() UIStatus {
	if ui, ok := projectToUI[s]; ok {
		return ui
	}
	return UILead
}

// IsOpen reports whether work on the project is still expected.
func (s ProjectStatus) IsOpen() bool {
	return s != ProjectCompleted && s != ProjectCancelled
}

func (u UIStatus) IsValid() bool {
	_, ok := uiToProject[u]
	return ok
}

// ProjectStatusFromUI picks the stored status used when a caller only
// supplies a display status.
func ProjectStatusFromUI(u UIStatus) (ProjectStatus, bool) {
	s, ok := uiToProject[u]
	return s, ok
}

// ProjectStatusesForUI returns every stored status that displays as u.
func ProjectStatusesForUI(u UIStatus) []ProjectStatus {
	var out []ProjectStatus
	for _, s := range AllProjectStatuses {
		if projectToUI[s] == u {
			out = append(out, s)
		}
	}
	return out
}

type Project struct {
	ID          string        `json:"id" bson:"_id"`
	OwnerID     string        `json:"-" bson:"owner_id"`
	ClientID    string        `json:"client_id" bson:"client_id"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Status      ProjectStatus `json:"status" bson:"status"`
	Budget      float64       `json:"budget" bson:"budget"`
	Currency    string        `json:"currency" bson:"currency"`
	StartDate   *time.Time    `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty" bson:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
