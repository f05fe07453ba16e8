package handlers

import (
	"context"
	"net/http"
	"time"

	"hirelane/internal/app"
	"hirelane/internal/common"
	"hirelane/internal/domain/job"
	"hirelane/internal/http/middleware"
	"hirelane/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Conditions   []string `json:"conditions"`
	Salary       string   `json:"salary"`
	Location     string   `json:"location"`
	ExpiresAt    string   `json:"expires_at"`
	CompanyName  string   `json:"company_name"`
}

func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"expires_at": "must be RFC3339"}))
		return
	}
	created, err := h.jobs.Submit(r.Context(), job.Job{
		CompanyID:    companyID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Conditions:   req.Conditions,
		Salary:       req.Salary,
		Location:     req.Location,
		ExpiresAt:    expiresAt,
	}, req.CompanyName)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)
	items, err := h.jobs.ListPending(r.Context(), limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Approve(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.Approve(r.Context(), jobID, adminID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *JobHandler) Reject(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req rejectRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
	}
	updated, err := h.jobs.Reject(r.Context(), jobID, adminID, req.Reason)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.Statistics(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, posting)
}

func (h *JobHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)
	items, err := h.jobs.ListActive(r.Context(), job.ListFilter{
		Location: r.URL.Query().Get("location"),
		Keyword:  r.URL.Query().Get("keyword"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ownerTransition(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, jobID, companyID common.UUID) (*job.Job, error)) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := action(r.Context(), jobID, companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, h.jobs.Resubmit)
}

func (h *JobHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, h.jobs.Deactivate)
}

func (h *JobHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, h.jobs.Reactivate)
}

func (h *JobHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, h.jobs.Close)
}

func (h *JobHandler) Save(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.jobs.RecordSave(r.Context(), jobID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *JobHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.jobs.UnrecordSave(r.Context(), jobID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}
