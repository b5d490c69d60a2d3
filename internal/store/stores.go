package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// Tag names a family of entities. Mutations invalidate by tag so every list
// that shows the entity is refetched.
type Tag string

const (
	TagCompanies    Tag = "companies"
	TagUsers        Tag = "users"
	TagJobs         Tag = "jobs"
	TagApplications Tag = "applications"
)

// Source is the subset of the backend client the stores load from.
type Source interface {
	ListCompanies(ctx context.Context) ([]types.Company, error)
	CompanyFields(ctx context.Context) ([]string, error)
	AdminCompanies(ctx context.Context) ([]types.Company, error)
	AdminUsers(ctx context.Context) ([]types.AdminUser, error)
	AdminJobs(ctx context.Context) ([]types.Job, error)
	MyJobs(ctx context.Context) ([]types.Job, error)
	MyApplications(ctx context.Context) ([]types.Application, error)
	JobApplications(ctx context.Context, jobID string) ([]types.Application, error)
}

type invalidator interface {
	Name() string
	Invalidate()
}

// Stores groups the entity caches for one session.
type Stores struct {
	Companies      *Cache[[]types.Company]
	Fields         *Cache[[]string]
	AdminCompanies *Cache[[]types.Company]
	AdminUsers     *Cache[[]types.AdminUser]
	AdminJobs      *Cache[[]types.Job]
	MyJobs         *Cache[[]types.Job]
	MyApplications *Cache[[]types.Application]

	src    Source
	config *CacheConfig

	mu     sync.Mutex
	tags   map[Tag][]invalidator
	perJob map[string]*Cache[[]types.Application]
}

// New builds the stores over src. config applies to every cache.
func New(src Source, config *CacheConfig) *Stores {
	s := &Stores{
		Companies:      NewCache("companies", src.ListCompanies, config),
		Fields:         NewCache("company-fields", src.CompanyFields, config),
		AdminCompanies: NewCache("admin-companies", src.AdminCompanies, config),
		AdminUsers:     NewCache("admin-users", src.AdminUsers, config),
		AdminJobs:      NewCache("admin-jobs", src.AdminJobs, config),
		MyJobs:         NewCache("my-jobs", src.MyJobs, config),
		MyApplications: NewCache("my-applications", src.MyApplications, config),
		src:            src,
		config:         config,
		tags:           map[Tag][]invalidator{},
		perJob:         map[string]*Cache[[]types.Application]{},
	}
	s.Register(s.Companies, TagCompanies)
	s.Register(s.Fields, TagCompanies)
	s.Register(s.AdminCompanies, TagCompanies)
	s.Register(s.AdminUsers, TagUsers)
	s.Register(s.AdminJobs, TagJobs)
	s.Register(s.MyJobs, TagJobs)
	s.Register(s.MyApplications, TagApplications, TagJobs)
	return s
}

// Register files c under each tag.
func (s *Stores) Register(c invalidator, tags ...Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		s.tags[tag] = append(s.tags[tag], c)
	}
}

// JobApplications returns the cache of applications received for one job,
// creating it on first use.
func (s *Stores) JobApplications(jobID string) *Cache[[]types.Application] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.perJob[jobID]; ok {
		return c
	}
	c := NewCache("job-applications/"+jobID, func(ctx context.Context) ([]types.Application, error) {
		return s.src.JobApplications(ctx, jobID)
	}, s.config)
	s.perJob[jobID] = c
	s.tags[TagApplications] = append(s.tags[TagApplications], c)
	return c
}

// InvalidateTags invalidates every cache filed under any of tags and
// returns the names of the caches it touched.
func (s *Stores) InvalidateTags(tags ...Tag) []string {
	s.mu.Lock()
	var targets []invalidator
	seen := map[invalidator]bool{}
	for _, tag := range tags {
		for _, c := range s.tags[tag] {
			if !seen[c] {
				seen[c] = true
				targets = append(targets, c)
			}
		}
	}
	s.mu.Unlock()

	names := make([]string, 0, len(targets))
	for _, c := range targets {
		c.Invalidate()
		names = append(names, c.Name())
	}
	return names
}

// PendingCompanies returns the admin company list filtered to those awaiting
// approval.
func (s *Stores) PendingCompanies(ctx context.Context) ([]types.Company, error) {
	all, err := s.AdminCompanies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}
	var pending []types.Company
	for _, c := range all {
		if c.Pending() {
			pending = append(pending, c)
		}
	}
	return pending, nil
}
