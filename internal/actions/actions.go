package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/store"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// Backend is the set of mutating backend calls actions issue.
type Backend interface {
	SetCompanyApproval(ctx context.Context, companyID string, approved bool) (string, error)
	SetUserBlocked(ctx context.Context, userID string, blocked bool) (string, error)
	SetJobStatus(ctx context.Context, jobID string, status types.JobStatus) (string, error)
	ForceCloseJob(ctx context.Context, jobID string, closed bool) (string, error)
	ScheduleInterview(ctx context.Context, applicationID string, req types.InterviewRequest) (string, error)
	RecordInterviewResult(ctx context.Context, applicationID string, result types.InterviewResult) (string, error)
	Withdraw(ctx context.Context, applicationID string) (string, error)
	Apply(ctx context.Context, jobID string) (string, error)
	PostJob(ctx context.Context, job types.NewJob) (string, error)
}

// Action is one mutating call plus what must be refetched afterwards.
type Action struct {
	// Name identifies the action in logs and errors.
	Name string
	// Success is shown when the backend returns no message of its own.
	Success string
	// Tags are invalidated after a successful mutation.
	Tags []store.Tag
	// Check runs before the mutation; an error stops the action locally.
	Check func() error
	// Mutate issues the single backend call.
	Mutate func(ctx context.Context, b Backend) (string, error)
	// Refetch reloads the list the action affects.
	Refetch func(ctx context.Context, s *store.Stores) error
}

func reload[T any](pick func(*store.Stores) *store.Cache[T]) func(context.Context, *store.Stores) error {
	return func(ctx context.Context, s *store.Stores) error {
		_, err := pick(s).Get(ctx)
		return err
	}
}

func adminCompanies(s *store.Stores) *store.Cache[[]types.Company] { return s.AdminCompanies }
func adminUsers(s *store.Stores) *store.Cache[[]types.AdminUser]   { return s.AdminUsers }
func adminJobs(s *store.Stores) *store.Cache[[]types.Job]          { return s.AdminJobs }
func myJobs(s *store.Stores) *store.Cache[[]types.Job]             { return s.MyJobs }
func myApplications(s *store.Stores) *store.Cache[[]types.Application] {
	return s.MyApplications
}

// ApproveCompany approves a pending company.
func ApproveCompany(companyID string) Action {
	return companyApproval(companyID, true)
}

// RejectCompany rejects a pending company.
func RejectCompany(companyID string) Action {
	return companyApproval(companyID, false)
}

func companyApproval(companyID string, approved bool) Action {
	name, msg := "company.reject", "Company rejected."
	if approved {
		name, msg = "company.approve", "Company approved."
	}
	return Action{
		Name:    name,
		Success: msg,
		Tags:    []store.Tag{store.TagCompanies},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.SetCompanyApproval(ctx, companyID, approved)
		},
		Refetch: reload(adminCompanies),
	}
}

// BlockUser blocks a user account.
func BlockUser(userID string) Action {
	return userBlock(userID, true)
}

// UnblockUser re-enables a blocked user account.
func UnblockUser(userID string) Action {
	return userBlock(userID, false)
}

func userBlock(userID string, blocked bool) Action {
	name, msg := "user.unblock", "User unblocked."
	if blocked {
		name, msg = "user.block", "User blocked."
	}
	return Action{
		Name:    name,
		Success: msg,
		Tags:    []store.Tag{store.TagUsers},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.SetUserBlocked(ctx, userID, blocked)
		},
		Refetch: reload(adminUsers),
	}
}

// OpenJob reopens one of the company's own jobs.
func OpenJob(jobID string) Action {
	return jobStatus(jobID, types.JobOpen)
}

// CloseJob closes one of the company's own jobs.
func CloseJob(jobID string) Action {
	return jobStatus(jobID, types.JobClosed)
}

func jobStatus(jobID string, status types.JobStatus) Action {
	return Action{
		Name:    "job." + strings.ToLower(string(status)),
		Success: "Job marked " + strings.ToLower(string(status)) + ".",
		Tags:    []store.Tag{store.TagJobs},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.SetJobStatus(ctx, jobID, status)
		},
		Refetch: reload(myJobs),
	}
}

// ForceCloseJob closes a job platform-wide.
func ForceCloseJob(jobID string) Action {
	return forceClose(jobID, true)
}

// ReopenJob lifts a forced close.
func ReopenJob(jobID string) Action {
	return forceClose(jobID, false)
}

func forceClose(jobID string, closed bool) Action {
	name, msg := "job.reopen", "Job reopened."
	if closed {
		name, msg = "job.force-close", "Job force-closed."
	}
	return Action{
		Name:    name,
		Success: msg,
		Tags:    []store.Tag{store.TagJobs},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.ForceCloseJob(ctx, jobID, closed)
		},
		Refetch: reload(adminJobs),
	}
}

// ScheduleInterview sets an interview for an application to jobID.
func ScheduleInterview(jobID, applicationID string, req types.InterviewRequest) Action {
	return Action{
		Name:    "application.interview",
		Success: "Interview scheduled.",
		Tags:    []store.Tag{store.TagApplications},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.ScheduleInterview(ctx, applicationID, req)
		},
		Refetch: jobApplications(jobID),
	}
}

// RecordInterviewResult records hired or rejected for an application to
// jobID.
func RecordInterviewResult(jobID, applicationID string, result types.InterviewResult) Action {
	return Action{
		Name:    "application.result",
		Success: "Result recorded: " + string(result) + ".",
		Tags:    []store.Tag{store.TagApplications},
		Check: func() error {
			if result != types.ResultHired && result != types.ResultRejected {
				return fmt.Errorf("unknown interview result %q", result)
			}
			return nil
		},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.RecordInterviewResult(ctx, applicationID, result)
		},
		Refetch: jobApplications(jobID),
	}
}

func jobApplications(jobID string) func(context.Context, *store.Stores) error {
	return func(ctx context.Context, s *store.Stores) error {
		if jobID == "" {
			return nil
		}
		_, err := s.JobApplications(jobID).Get(ctx)
		return err
	}
}

// WithdrawApplication withdraws the user's application. The status change
// is checked locally first so a final or already withdrawn application never
// reaches the backend.
func WithdrawApplication(app types.Application) Action {
	return Action{
		Name:    "application.withdraw",
		Success: "Application withdrawn.",
		Tags:    []store.Tag{store.TagApplications},
		Check: func() error {
			if !app.Status.CanTransition(types.StatusWithdrawn) {
				return &types.TransitionError{From: app.Status, To: types.StatusWithdrawn}
			}
			return nil
		},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.Withdraw(ctx, app.ID)
		},
		Refetch: reload(myApplications),
	}
}

// ApplyToJob submits an application for the signed-in user.
func ApplyToJob(jobID string) Action {
	return Action{
		Name:    "job.apply",
		Success: "Application submitted.",
		Tags:    []store.Tag{store.TagApplications},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.Apply(ctx, jobID)
		},
		Refetch: reload(myApplications),
	}
}

// PostJob publishes a new job for the signed-in company.
func PostJob(job types.NewJob) Action {
	return Action{
		Name:    "job.post",
		Success: "Job posted.",
		Tags:    []store.Tag{store.TagJobs},
		Mutate: func(ctx context.Context, b Backend) (string, error) {
			return b.PostJob(ctx, job)
		},
		Refetch: reload(myJobs),
	}
}
