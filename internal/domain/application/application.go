package application

import (
	"time"

	"hirelane/internal/common"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewing   Status = "reviewing"
	StatusInterviewed Status = "interviewed"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// transitions is the permitted edge set of the review state machine.
// Accepted, rejected and withdrawn are terminal; status never moves backward.
var transitions = map[Status][]Status{
	StatusPending:     {StatusReviewing, StatusRejected, StatusWithdrawn},
	StatusReviewing:   {StatusInterviewed, StatusAccepted, StatusRejected, StatusWithdrawn},
	StatusInterviewed: {StatusAccepted, StatusRejected, StatusWithdrawn},
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
	return status == StatusAccepted || status == StatusRejected || status == StatusWithdrawn
}

func IsKnown(status Status) bool {
	switch status {
	case StatusPending, StatusReviewing, StatusInterviewed, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

type Application struct {
	ID          common.UUID `json:"id"`
	JobID       common.UUID `json:"job_id"`
	ApplicantID common.UUID `json:"applicant_id"`
	ResumeID    common.UUID `json:"resume_id"`
	Status      Status      `json:"status"`
	AppliedAt   time.Time   `json:"applied_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
