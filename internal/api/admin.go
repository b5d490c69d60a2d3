package api

import (
	"context"
	"net/http"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// AdminCompanies lists every company, approved or not.
func (c *Client) AdminCompanies(ctx context.Context) ([]types.Company, error) {
	var companies []types.Company
	if err := c.get(ctx, "AdminCompanies", pathAdminCompanies, &companies, nil); err != nil {
		return nil, err
	}
	return companies, nil
}

// SetCompanyApproval approves (true) or rejects (false) a company.
func (c *Client) SetCompanyApproval(ctx context.Context, companyID string, approved bool) (string, error) {
	return c.mutateID(ctx, "SetCompanyApproval", http.MethodPatch, pathAdminCompanyStatus, companyID,
		map[string]bool{"status": approved})
}

// AdminUsers lists every user account.
func (c *Client) AdminUsers(ctx context.Context) ([]types.AdminUser, error) {
	var users []types.AdminUser
	if err := c.get(ctx, "AdminUsers", pathAdminUsers, &users, nil); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserBlocked blocks or re-enables a user account.
func (c *Client) SetUserBlocked(ctx context.Context, userID string, blocked bool) (string, error) {
	return c.mutateID(ctx, "SetUserBlocked", http.MethodPatch, pathAdminUserStatus, userID,
		map[string]bool{"isBlocked": blocked})
}

// AdminUserProfile returns the reduced profile view of a user.
func (c *Client) AdminUserProfile(ctx context.Context, userID string) (*types.AdminProfileView, error) {
	const op = "AdminUserProfile"
	r := c.request(ctx).SetPathParam("id", userID)
	resp, err := c.do(op, r, http.MethodGet, pathAdminUserProfile)
	if err != nil {
		return nil, err
	}
	var profile types.Profile
	if err := decodeData(op, resp, &profile); err != nil {
		return nil, err
	}
	view := profile.AdminView()
	return &view, nil
}

// AdminJobs lists every job across companies.
func (c *Client) AdminJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	if err := c.get(ctx, "AdminJobs", pathAdminJobs, &jobs, nil); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ForceCloseJob closes (true) or releases (false) a job regardless of the
// company's own status.
func (c *Client) ForceCloseJob(ctx context.Context, jobID string, closed bool) (string, error) {
	return c.mutateID(ctx, "ForceCloseJob", http.MethodPatch, pathAdminJobStatus, jobID,
		map[string]bool{"forceClosed": closed})
}
