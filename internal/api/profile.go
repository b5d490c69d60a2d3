package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// File is a binary multipart part.
type File struct {
	Param       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// Multipart is a multipart/form-data body: text parts and file parts.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// GetProfile returns the session user's profile, or nil when none exists yet.
func (c *Client) GetProfile(ctx context.Context) (*types.Profile, error) {
	const op = "GetProfile"
	resp, err := c.do(op, c.request(ctx), http.MethodGet, pathGetProfile)
	if err != nil {
		return nil, err
	}
	var profile *types.Profile
	if err := decodeData(op, resp, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SubmitProfile creates or replaces the session user's profile.
func (c *Client) SubmitProfile(ctx context.Context, body *Multipart) (string, error) {
	const op = "SubmitProfile"
	r := c.request(ctx).SetMultipartFormData(body.Fields)
	fields := make([]*resty.MultipartField, 0, len(body.Files))
	for _, f := range body.Files {
		fields = append(fields, &resty.MultipartField{
			Param:       f.Param,
			FileName:    f.Name,
			ContentType: f.ContentType,
			Reader:      f.Reader,
		})
	}
	if len(fields) > 0 {
		r.SetMultipartFields(fields...)
	}

	resp, err := c.do(op, r, http.MethodPost, pathSubmitProfile)
	if err != nil {
		return "", err
	}
	return envelopeMessage(resp.Body()), nil
}
