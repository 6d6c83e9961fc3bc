package api

import (
	"net/http"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ListDrivers handles GET /api/drivers?q=
func (h *Handlers) ListDrivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		drivers, err := h.deps.Services.Drivers.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", drivers)
	}
}

func (h *Handlers) GetDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		driver, err := h.deps.Services.Drivers.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgDriverNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "", driver)
	}
}

func (h *Handlers) CreateDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateDriverRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		driver, err := h.deps.Services.Drivers.Create(r.Context(), &req)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "Driver created", driver, http.StatusCreated)
	}
}

func (h *Handlers) UpdateDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateDriverRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		driver, err := h.deps.Services.Drivers.Update(r.Context(), chi.URLParam(r, "id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgDriverNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Driver updated", driver)
	}
}

// DeleteDriver handles DELETE /api/drivers/{id}. Jobs of the driver are
// kept and unassigned.
func (h *Handlers) DeleteDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Drivers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err, constants.MsgDriverNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Driver deleted", nil)
	}
}
