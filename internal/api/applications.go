package api

import (
	"context"
	"net/http"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// Apply submits an application for jobID as the session user.
func (c *Client) Apply(ctx context.Context, jobID string) (string, error) {
	return c.mutateID(ctx, "Apply", http.MethodPost, pathApply, jobID, nil)
}

// Withdraw withdraws the application with id.
func (c *Client) Withdraw(ctx context.Context, applicationID string) (string, error) {
	return c.mutateID(ctx, "Withdraw", http.MethodDelete, pathWithdraw, applicationID, nil)
}

// MyApplications lists the session user's applications.
func (c *Client) MyApplications(ctx context.Context) ([]types.Application, error) {
	var apps []types.Application
	if err := c.get(ctx, "MyApplications", pathMyApplications, &apps, nil); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) mutateID(ctx context.Context, op, method, path, id string, body any) (string, error) {
	r := c.request(ctx).SetPathParam("id", id)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := c.do(op, r, method, path)
	if err != nil {
		return "", err
	}
	return envelopeMessage(resp.Body()), nil
}
