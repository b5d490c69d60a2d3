package api

import (
	"context"
	"net/http"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// MyJobs lists the jobs posted by the session's company.
func (c *Client) MyJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.get(ctx, "MyJobs", pathMyJobs, &jobs, nil); err != nil {
		return nil, err
	}
	return jobs, nil
}

// PostJob publishes a new job for the session's company.
func (c *Client) PostJob(ctx context.Context, job types.NewJob) (string, error) {
	return c.mutate(ctx, "PostJob", http.MethodPost, pathPostJob, job)
}

// SetJobStatus opens or closes one of the company's jobs.
func (c *Client) SetJobStatus(ctx context.Context, jobID string, status types.JobStatus) (string, error) {
	return c.mutateID(ctx, "SetJobStatus", http.MethodPatch, pathJobStatus, jobID,
		map[string]types.JobStatus{"status": status})
}

// JobApplications lists applications received for one of the company's jobs.
func (c *Client) JobApplications(ctx context.Context, jobID string) ([]types.Application, error) {
	const op = "JobApplications"
	r := c.request(ctx).SetPathParam("id", jobID)
	resp, err := c.do(op, r, http.MethodGet, pathJobApplications)
	if err != nil {
		return nil, err
	}
	var apps []types.Application
	if err := decodeData(op, resp, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ScheduleInterview moves an application to the interview stage.
func (c *Client) ScheduleInterview(ctx context.Context, applicationID string, req types.InterviewRequest) (string, error) {
	return c.mutateID(ctx, "ScheduleInterview", http.MethodPatch, pathInterview, applicationID, req)
}

// RecordInterviewResult records hired or rejected after an interview.
func (c *Client) RecordInterviewResult(ctx context.Context, applicationID string, result types.InterviewResult) (string, error) {
	return c.mutateID(ctx, "RecordInterviewResult", http.MethodPatch, pathInterviewResult, applicationID,
		map[string]types.InterviewResult{"result": result})
}
