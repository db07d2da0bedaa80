package domain

import "time"

// ClientStatus is the relationship state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientArchived ClientStatus = "archived"
	ClientLead     ClientStatus = "lead"
)

func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientActive, ClientInactive, ClientArchived, ClientLead:
		return true
	}
	return false
}

type Client struct {
	ID            string       `json:"id" bson:"_id"`
	OwnerID       string       `json:"-" bson:"owner_id"`
	Name          string       `json:"name" bson:"name"`
	Email         string       `json:"email" bson:"email"`
	Company       string       `json:"company" bson:"company"`
	Phone         string       `json:"phone" bson:"phone"`
	Status        ClientStatus `json:"status" bson:"status"`
	Notes         string       `json:"notes" bson:"notes"`
	LastContactAt *time.Time   `json:"last_contact_at,omitempty" bson:"last_contact_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}
