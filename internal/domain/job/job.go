package job

import (
	"time"

	"hirelane/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

// transitions is the permitted edge set of the publication state machine.
// Closed is terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusActive, StatusRejected},
	StatusActive:   {StatusInactive, StatusClosed},
	StatusInactive: {StatusActive, StatusClosed},
	StatusRejected: {StatusPending},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(status Status) bool {
	return status == StatusClosed
}

type CounterField string

const (
	CounterViews        CounterField = "view_count"
	CounterSaves        CounterField = "save_count"
	CounterApplications CounterField = "application_count"
)

func ValidCounterField(field CounterField) bool {
	switch field {
	case CounterViews, CounterSaves, CounterApplications:
		return true
	default:
		return false
	}
}

type Job struct {
	ID               common.UUID `json:"id"`
	CompanyID        common.UUID `json:"company_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Requirements     []string    `json:"requirements"`
	Conditions       []string    `json:"conditions"`
	Salary           string      `json:"salary"`
	Location         string      `json:"location"`
	Status           Status      `json:"status"`
	ModerationNote   string      `json:"moderation_note,omitempty"`
	ExpiresAt        time.Time   `json:"expires_at"`
	ViewCount        int         `json:"view_count"`
	SaveCount        int         `json:"save_count"`
	ApplicationCount int         `json:"application_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type Statistics struct {
	ByStatus     map[Status]int `json:"by_status"`
	Pending      int            `json:"pending"`
	Active       int            `json:"active"`
	ExpiringSoon int            `json:"expiring_soon"`
}

type ListFilter struct {
	Location string
	Keyword  string
	Limit    int
	Offset   int
}
