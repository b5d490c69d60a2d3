package types

import "time"

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegistrationRequest registers a job seeker.
type RegistrationRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// CompanyRegistrationRequest registers a company and its administrator.
type CompanyRegistrationRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Location    string `json:"location" validate:"required"`
	Field       string `json:"field" validate:"required"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// ForgotPasswordRequest asks the backend to email a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password from a reset link.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// JobPostRequest is the company admin's new-job form. Skills, Benefits and
// Tags arrive as comma separated strings and are split before submission.
type JobPostRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"required,min=20"`
	Location    string `json:"location" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship"`
	Mode        string `json:"jobMode" validate:"required,oneof=Remote Onsite Hybrid"`
	Seniority   string `json:"seniority" validate:"omitempty,oneof=Entry Mid Senior Lead"`
	Salary      string `json:"salary"`
	Skills      string `json:"skills" validate:"required"`
	Benefits    string `json:"benefits"`
	Tags        string `json:"tags"`
}

// InterviewRequest schedules an interview for an application.
type InterviewRequest struct {
	At   time.Time `json:"interviewDate" validate:"required"`
	Note string    `json:"interviewNote,omitempty" validate:"max=500"`
}

// InterviewResult is the outcome recorded after an interview.
type InterviewResult string

const (
	ResultHired    InterviewResult = "hired"
	ResultRejected InterviewResult = "rejected"
)

// Status maps the result onto the application status it produces.
func (r InterviewResult) Status() ApplicationStatus {
	if r == ResultHired {
		return StatusHired
	}
	return StatusRejected
}

// JobPage is one page of a server-paged job search.
type JobPage struct {
	Jobs  []Job
	Total int
	Page  int
	Limit int
}
