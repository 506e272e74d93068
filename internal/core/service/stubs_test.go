package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail   map[string]*domain.User
	byID      map[string]*domain.User
	seq       int
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.seq++
	stored := cloneUser(u)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.byEmail[stored.Email] = stored
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubJobRepo struct {
	jobs    map[string]*domain.Job
	seq     int
	lastArg ports.ListJobsFilter
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func (r *stubJobRepo) Create(_ context.Context, j *domain.Job) (*domain.Job, error) {
	r.seq++
	clone := *j
	clone.ID = fmt.Sprintf("job-%d", r.seq)
	r.jobs[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *j
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubJobRepo) List(_ context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	r.lastArg = f

	var matched []*domain.Job
	for _, j := range r.jobs {
		if f.EmployerID != "" && j.EmployerID != f.EmployerID {
			continue
		}
		if f.Status != "" && string(j.Status) != f.Status {
			continue
		}
		if f.Type != "" && string(j.Type) != f.Type {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search)) {
			continue
		}
		clone := *j
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, k int) bool { return matched[i].ID < matched[k].ID })

	total := int64(len(matched))
	if f.Limit > 0 {
		start := (f.Page - 1) * f.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *stubJobRepo) UpdateStatus(_ context.Context, id string, status domain.JobStatus) error {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.Status = status
	return nil
}

type stubApplicationRepo struct {
	apps map[string]*domain.Application
	seq  int
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{apps: make(map[string]*domain.Application)}
}

func (r *stubApplicationRepo) Create(_ context.Context, a *domain.Application) (*domain.Application, error) {
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.JobseekerID == a.JobseekerID {
			return nil, domain.ErrAlreadyApplied
		}
	}
	r.seq++
	clone := *a
	clone.ID = fmt.Sprintf("app-%d", r.seq)
	r.apps[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApplicationRepo) list(match func(*domain.Application) bool) []*domain.Application {
	var out []*domain.Application
	for _, a := range r.apps {
		if match(a) {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (r *stubApplicationRepo) ListByJobseeker(_ context.Context, id string) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.JobseekerID == id }), nil
}

func (r *stubApplicationRepo) ListByJob(_ context.Context, id string) ([]*domain.Application, error) {
	return r.list(func(a *domain.Application) bool { return a.JobID == id }), nil
}

func (r *stubApplicationRepo) CountByJobs(_ context.Context, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		for _, a := range r.apps {
			if a.JobID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	a, ok := r.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

// ---------------------------------------------------------------------------
// Security and audit stubs
// ---------------------------------------------------------------------------

// stubHasher prefixes instead of hashing and counts comparisons.
type stubHasher struct {
	verifies int
}

func (h *stubHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (h *stubHasher) Verify(plain, digest string) bool {
	h.verifies++
	return digest == "hashed:"+plain
}

// stubCodec encodes the claim in clear text. Tokens starting with "bad"
// never verify.
type stubCodec struct {
	issued []domain.SessionClaim
	now    time.Time
}

func (c *stubCodec) Issue(claim domain.SessionClaim) (string, time.Time, error) {
	c.issued = append(c.issued, claim)
	token := strings.Join([]string{claim.UserID, string(claim.Role), claim.Email, claim.FullName}, "|")
	return token, c.now.Add(domain.SessionTTL), nil
}

func (c *stubCodec) Verify(token string) (*domain.SessionClaim, bool) {
	parts := strings.Split(token, "|")
	if len(parts) != 4 {
		return nil, false
	}
	return &domain.SessionClaim{UserID: parts[0], Role: domain.Role(parts[1]), Email: parts[2], FullName: parts[3]}, true
}

type stubLimiter struct {
	max      int
	failures map[string]int
	resets   int
	err      error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Blocked(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[key] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, key string) error {
	l.failures[key]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.resets++
	delete(l.failures, key)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *recordingAudit) Record(ev domain.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) kinds() []domain.AuthEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recordingAudit) last() domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type stubAuditRepo struct {
	stored []*domain.AuthEvent
	err    error
}

func (r *stubAuditRepo) InsertAuthEvent(_ context.Context, ev *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.stored = append(r.stored, ev)
	return nil
}
