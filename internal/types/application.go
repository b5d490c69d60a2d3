package types

import (
	"fmt"
	"time"
)

// ApplicationStatus tracks an application through the hiring workflow.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusUnderReview ApplicationStatus = "under review"
	StatusWithdrawn   ApplicationStatus = "withdrawn"
	StatusInterview   ApplicationStatus = "interview"
	StatusHired       ApplicationStatus = "hired"
	StatusRejected    ApplicationStatus = "rejected"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:     {StatusUnderReview, StatusWithdrawn, StatusInterview, StatusRejected},
	StatusUnderReview: {StatusWithdrawn, StatusInterview, StatusRejected},
	StatusInterview:   {StatusHired, StatusRejected},
}

// Final reports whether no further transition is possible.
func (s ApplicationStatus) Final() bool {
	return len(applicationTransitions[s]) == 0
}

// CanTransition reports whether the workflow allows moving from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError is returned when an action is not valid for the current status.
type TransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("application cannot move from %q to %q", e.From, e.To)
}

// Application links an applicant to a job.
type Application struct {
	ID            string            `json:"_id"`
	JobID         string            `json:"jobId"`
	Job           *Job              `json:"job,omitempty"`
	ApplicantID   string            `json:"userId"`
	ApplicantName string            `json:"applicantName,omitempty"`
	Status        ApplicationStatus `json:"status"`
	InterviewAt   *time.Time        `json:"interviewDate,omitempty"`
	InterviewNote string            `json:"interviewNote,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
