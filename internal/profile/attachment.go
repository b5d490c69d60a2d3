package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
)

// Attachment size limits.
const (
	MaxPhotoSize  = 2 << 20
	MaxResumeSize = 5 << 20
)

// Attachment is an uploaded file held in memory.
type Attachment struct {
	Name string
	// ContentType is sniffed from Data; whatever the uploader declared is
	// not trusted.
	ContentType string
	Data        []byte
}

// NewAttachment sniffs data's content type. Reading stops one byte past
// limit so an oversized upload is detected without buffering all of it.
func NewAttachment(name string, r io.Reader, limit int64) (*Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return &Attachment{
		Name:        filepath.Base(name),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

// OpenAttachment reads an attachment from disk.
func OpenAttachment(path string, limit int64) (*Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()
	return NewAttachment(path, f, limit)
}

type rule struct {
	label   string
	allowed func(contentType string) bool
	kind    string
	max     int
}

var (
	photoRule = rule{
		label:   "Photo",
		allowed: func(ct string) bool { return strings.HasPrefix(ct, "image/") },
		kind:    "an image",
		max:     MaxPhotoSize,
	}
	resumeRule = rule{
		label:   "Resume",
		allowed: func(ct string) bool { return ct == "application/pdf" },
		kind:    "a PDF",
		max:     MaxResumeSize,
	}
)

// check returns a message when a violates r; a missing attachment passes.
func (a *Attachment) check(r rule) string {
	if a == nil {
		return ""
	}
	if len(a.Data) == 0 {
		return r.label + " is empty"
	}
	if !r.allowed(mediaType(a.ContentType)) {
		return r.label + " must be " + r.kind
	}
	if len(a.Data) > r.max {
		return fmt.Sprintf("%s must be under %d MB", r.label, r.max>>20)
	}
	return ""
}

func (a *Attachment) part(param string) api.File {
	return api.File{
		Param:       param,
		Name:        a.Name,
		ContentType: mediaType(a.ContentType),
		Reader:      bytes.NewReader(a.Data),
	}
}

// mediaType drops parameters such as "; charset=utf-8".
func mediaType(ct string) string {
	base, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(base)
}
