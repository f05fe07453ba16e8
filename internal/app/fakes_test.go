package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"hirelane/internal/common"
	"hirelane/internal/domain/application"
	"hirelane/internal/domain/job"
	"hirelane/internal/domain/notification"
	"hirelane/internal/domain/resume"
	"hirelane/internal/domain/user"
)

type fakeJobRepo struct {
	mu          sync.Mutex
	jobs        map[common.UUID]*job.Job
	failExpire  map[common.UUID]bool
	counterErrs bool
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:       make(map[common.UUID]*job.Job),
		failExpire: make(map[common.UUID]bool),
	}
}

func (r *fakeJobRepo) put(posting job.Job) *job.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	if posting.ID == "" {
		posting.ID = common.NewUUID()
	}
	stored := posting
	r.jobs[posting.ID] = &stored
	return &posting
}

func (r *fakeJobRepo) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	posting.ID = common.NewUUID()
	now := time.Now().UTC()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	if posting.Status == "" {
		posting.Status = job.StatusPending
	}
	return r.put(posting), nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	clone := *posting
	return &clone, nil
}

func (r *fakeJobRepo) ListPending(ctx context.Context, limit, offset int) ([]job.Job, error) {
	return r.listByStatus(job.StatusPending), nil
}

func (r *fakeJobRepo) ListActive(ctx context.Context, filter job.ListFilter) ([]job.Job, error) {
	return r.listByStatus(job.StatusActive), nil
}

func (r *fakeJobRepo) listByStatus(status job.Status) []job.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.jobs {
		if posting.Status == status {
			items = append(items, *posting)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r *fakeJobRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.jobs {
		if posting.CompanyID == companyID {
			items = append(items, *posting)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) TransitionStatus(ctx context.Context, id common.UUID, from, to job.Status, moderationNote string) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if posting.Status != from {
		return nil, common.NewError(common.CodeInvalidState, "job status changed concurrently", nil)
	}
	posting.Status = to
	posting.ModerationNote = moderationNote
	posting.UpdatedAt = time.Now().UTC()
	clone := *posting
	return &clone, nil
}

func (r *fakeJobRepo) AdjustCounter(ctx context.Context, id common.UUID, field job.CounterField, delta int) (int, bool, error) {
	if r.counterErrs {
		return 0, false, common.NewError(common.CodeInternal, "counter unavailable", errors.New("boom"))
	}
	if !job.ValidCounterField(field) {
		return 0, false, common.NewError(common.CodeValidation, "unknown counter field", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.jobs[id]
	if !ok {
		return 0, false, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	var value *int
	switch field {
	case job.CounterViews:
		value = &posting.ViewCount
	case job.CounterSaves:
		value = &posting.SaveCount
	case job.CounterApplications:
		value = &posting.ApplicationCount
	}
	*value += delta
	clamped := *value < 0
	if clamped {
		*value = 0
	}
	return *value, clamped, nil
}

func (r *fakeJobRepo) ListExpired(ctx context.Context, now time.Time) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.jobs {
		if posting.Status == job.StatusActive && posting.ExpiresAt.Before(now) {
			items = append(items, *posting)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeJobRepo) MarkExpired(ctx context.Context, id common.UUID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failExpire[id] {
		return false, common.NewError(common.CodeInternal, "storage unavailable", errors.New("boom"))
	}
	posting, ok := r.jobs[id]
	if !ok {
		return false, nil
	}
	if posting.Status != job.StatusActive || !posting.ExpiresAt.Before(now) {
		return false, nil
	}
	posting.Status = job.StatusInactive
	posting.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeJobRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.jobs {
		if posting.Status == job.StatusActive && posting.ExpiresAt.After(from) && !posting.ExpiresAt.After(to) {
			items = append(items, *posting)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeJobRepo) CountByStatus(ctx context.Context) (map[job.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[job.Status]int)
	for _, posting := range r.jobs {
		counts[posting.Status]++
	}
	return counts, nil
}

func (r *fakeJobRepo) CountActiveExpiringWithin(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, posting := range r.jobs {
		if posting.Status == job.StatusActive && posting.ExpiresAt.After(now) && !posting.ExpiresAt.After(now.Add(window)) {
			count++
		}
	}
	return count, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[common.UUID]*application.Application)}
}

// Create mirrors the partial unique index on (job_id, applicant_id) for
// non-withdrawn rows.
func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID && existing.Status != application.StatusWithdrawn {
			return nil, common.NewError(common.CodeConflict, "application already exists", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = application.StatusPending
	}
	stored := app
	r.apps[app.ID] = &stored
	return &app, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID, limit, offset int) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.apps {
		if app.ApplicantID == applicantID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID common.UUID, limit, offset int) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) TransitionStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != from {
		return nil, common.NewError(common.CodeInvalidState, "application status changed concurrently", nil)
	}
	app.Status = to
	app.UpdatedAt = time.Now().UTC()
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

type fakeResumeRepo struct {
	mu      sync.Mutex
	resumes map[common.UUID]*resume.Resume
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: make(map[common.UUID]*resume.Resume)}
}

func (r *fakeResumeRepo) put(ownerID common.UUID) common.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := common.NewUUID()
	r.resumes[id] = &resume.Resume{ID: id, OwnerID: ownerID, Title: "cv"}
	return id
}

func (r *fakeResumeRepo) GetByID(ctx context.Context, id common.UUID) (*resume.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.resumes[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "resume not found", nil)
	}
	clone := *cv
	return &clone, nil
}

type fakeNotificationRepo struct {
	mu         sync.Mutex
	items      map[common.UUID]*notification.Notification
	failCreate bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: make(map[common.UUID]*notification.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, common.NewError(common.CodeInternal, "notification store unavailable", errors.New("boom"))
	}
	n.ID = common.NewUUID()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	stored := n
	r.items[n.ID] = &stored
	return &n, nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID common.UUID, limit, offset int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []notification.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			items = append(items, *n)
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, recipientID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id, recipientID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID common.UUID) []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []notification.Notification
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			items = append(items, *n)
		}
	}
	return items
}

func (r *fakeNotificationRepo) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[common.UUID]*user.User)}
}

func (r *fakeUserRepo) put(roles ...user.Role) common.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := common.NewUUID()
	r.users[id] = &user.User{ID: id, Roles: roles}
	return id
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.users[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	clone := *account
	return &clone, nil
}

func (r *fakeUserRepo) ListAdmins(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var admins []user.User
	for _, account := range r.users {
		for _, role := range account.Roles {
			if role == user.RoleAdmin {
				admins = append(admins, *account)
				break
			}
		}
	}
	return admins, nil
}
