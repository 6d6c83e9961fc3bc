package api

import (
	"net/http"
	"time"

	"dispatch-app/backend/internal/auth"
	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/middleware"
	"dispatch-app/backend/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ListJobs handles GET /api/jobs
func (h *Handlers) ListJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		filter, err := parseJobFilter(r)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		sort, err := parseJobSort(r)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		jobs, err := h.deps.Services.Jobs.List(r.Context(), filter, sort)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", jobs)
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *Handlers) GetJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		job, err := h.deps.Services.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "", job)
	}
}

// CreateJob handles POST /api/jobs
func (h *Handlers) CreateJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateJobRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		job, err := h.deps.Services.Jobs.Create(r.Context(), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgDriverNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Job created", job, http.StatusCreated)
	}
}

// BulkCreateJobs handles POST /api/jobs/bulk
func (h *Handlers) BulkCreateJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.BulkCreateJobsRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		jobs, err := h.deps.Services.Jobs.BulkCreate(r.Context(), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgDriverNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Jobs created", jobs, http.StatusCreated)
	}
}

// UpdateJob handles PUT and PATCH /api/jobs/{id}
func (h *Handlers) UpdateJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateJobRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		job, err := h.deps.Services.Jobs.Update(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Job updated", job)
	}
}

// DeleteJob handles DELETE /api/jobs/{id}
func (h *Handlers) DeleteJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id := chi.URLParam(r, "id")
		if err := h.deps.Services.Jobs.Delete(r.Context(), id); err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		auditLog(r, "Job deleted", "job_id", id)
		common.RespondSuccess(w, initTime, "Job deleted", nil)
	}
}

// AssignJob handles POST /api/jobs/{id}/assign
func (h *Handlers) AssignJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AssignJobRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		job, err := h.deps.Services.Jobs.Assign(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Job assigned", job)
	}
}

// UnassignJob handles POST /api/jobs/{id}/unassign
func (h *Handlers) UnassignJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		job, err := h.deps.Services.Jobs.Unassign(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Job unassigned", job)
	}
}

// ChangeJobStatus handles POST /api/jobs/{id}/status
func (h *Handlers) ChangeJobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.StatusChangeRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		job, err := h.deps.Services.Jobs.ChangeStatus(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		auditLog(r, "Job status set", "job_id", job.ID, "status", job.Status)
		common.RespondSuccess(w, initTime, "Status updated", job)
	}
}

// PatchJobWorkflow handles PATCH /api/jobs/{id}/workflow
func (h *Handlers) PatchJobWorkflow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.WorkflowPatchRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		job, err := h.deps.Services.Jobs.PatchWorkflow(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgJobNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Workflow updated", job)
	}
}

// auditLog records who made a change; the subject is "anonymous" when auth
// is off.
func auditLog(r *http.Request, msg string, kv ...any) {
	claims := auth.GetUserClaims(r.Context())
	kv = append(kv, "subject", claims.Subject(), "auth_source", claims.Source())
	logging.WithRequest(middleware.GetRequestID(r.Context()), r.URL.Path).Infow(msg, kv...)
}
