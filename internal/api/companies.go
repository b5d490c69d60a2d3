package api

import (
	"context"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// ListCompanies lists approved companies for job seekers.
func (c *Client) ListCompanies(ctx context.Context) ([]types.Company, error) {
	var companies []types.Company
	if err := c.get(ctx, "ListCompanies", pathCompanies, &companies, nil); err != nil {
		return nil, err
	}
	return companies, nil
}

// CompanyFields lists the distinct industry fields used as a filter.
func (c *Client) CompanyFields(ctx context.Context) ([]string, error) {
	var fields []string
	if err := c.get(ctx, "CompanyFields", pathCompanyFields, &fields, nil); err != nil {
		return nil, err
	}
	return fields, nil
}
