package domain

import "time"

// ScopeVersion is an immutable snapshot of a project's agreed scope.
// Version numbers start at 1 and increase by one per project.
type ScopeVersion struct {
	ID            string    `json:"id" bson:"_id"`
	OwnerID       string    `json:"-" bson:"owner_id"`
	ProjectID     string    `json:"project_id" bson:"project_id"`
	VersionNumber int       `json:"version_number" bson:"version_number"`
	Deliverables  []string  `json:"deliverables" bson:"deliverables"`
	OutOfScope    []string  `json:"out_of_scope" bson:"out_of_scope"`
	Assumptions   []string  `json:"assumptions" bson:"assumptions"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ShareToken    string    `json:"share_token" bson:"share_token"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
