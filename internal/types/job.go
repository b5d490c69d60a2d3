package types

import "time"

// JobStatus is the company-controlled open/closed state of a posting.
type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
)

// Valid reports whether s is Open or Closed.
func (s JobStatus) Valid() bool {
	return s == JobOpen || s == JobClosed
}

// Job is a job posting.
type Job struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Mode        string    `json:"jobMode"`
	Seniority   string    `json:"seniority"`
	Salary      string    `json:"salary"`
	Skills      []string  `json:"skills"`
	Benefits    []string  `json:"benefits"`
	Tags        []string  `json:"tags"`
	Status      JobStatus `json:"status"`
	ForceClosed bool      `json:"forceClosed"`
	CompanyID   string    `json:"companyId,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EffectiveStatus is the status a job seeker sees. An admin force-close
// overrides whatever the company set.
func (j Job) EffectiveStatus() JobStatus {
	if j.ForceClosed {
		return JobClosed
	}
	if j.Status == "" {
		return JobOpen
	}
	return j.Status
}

// Open reports whether the job currently accepts applications.
func (j Job) Open() bool {
	return j.EffectiveStatus() == JobOpen
}

// NewJob is the payload for posting a job.
type NewJob struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Mode        string   `json:"jobMode"`
	Seniority   string   `json:"seniority,omitempty"`
	Salary      string   `json:"salary,omitempty"`
	Skills      []string `json:"skills"`
	Benefits    []string `json:"benefits,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
