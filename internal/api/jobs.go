package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// ListJobs returns every open job. Callers page it locally.
func (c *Client) ListJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.get(ctx, "ListJobs", pathJobs, &jobs, nil); err != nil {
		return nil, err
	}
	return jobs, nil
}

// SearchJobs runs a server-paged search. params may carry search, type,
// jobMode, page and limit; empty values must already be omitted.
func (c *Client) SearchJobs(ctx context.Context, params url.Values) (*types.JobPage, error) {
	const op = "SearchJobs"
	r := c.request(ctx).SetQueryParamsFromValues(params)
	resp, err := c.do(op, r, http.MethodGet, pathSearchJobs)
	if err != nil {
		return nil, err
	}

	page := &types.JobPage{}
	if err := decodeData(op, resp, &page.Jobs); err != nil {
		return nil, err
	}

	body := resp.Body()
	page.Total = int(firstInt(body, "total", "pagination.total", "totalJobs"))
	if page.Total == 0 {
		page.Total = len(page.Jobs)
	}
	page.Page = int(firstInt(body, "page", "pagination.page"))
	page.Limit = int(firstInt(body, "limit", "pagination.limit"))
	return page, nil
}

func firstInt(body []byte, paths ...string) int64 {
	for _, p := range paths {
		if v := gjson.GetBytes(body, p); v.Exists() {
			return v.Int()
		}
	}
	return 0
}

// JobDetails fetches one job.
func (c *Client) JobDetails(ctx context.Context, id string) (*types.Job, error) {
	const op = "JobDetails"
	r := c.request(ctx).SetPathParam("id", id)
	resp, err := c.do(op, r, http.MethodGet, pathJobDetails)
	if err != nil {
		return nil, err
	}
	var job types.Job
	if err := decodeData(op, resp, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, &Error{Op: op, Status: resp.StatusCode(), Kind: ErrNotFound}
	}
	return &job, nil
}
