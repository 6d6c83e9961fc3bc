package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/models/dtos"
	"dispatch-app/backend/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeBody reads a JSON body into dst, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

// respondServiceError maps service and repository errors onto HTTP statuses.
// notFound is the message used for a 404.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error, notFound string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		common.RespondErrorData(w, initTime, verr.Error(), dtos.ValidationErrorResponse{Errors: verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidTransition):
		common.RespondError(w, initTime, err, constants.MsgInvalidTransition, http.StatusConflict)
	case errors.Is(err, services.ErrDuplicateCallsign):
		common.RespondError(w, initTime, errors.New(constants.MsgDuplicateCallsign), "", http.StatusConflict)
	case errors.Is(err, repositories.ErrNotFound):
		common.RespondError(w, initTime, errors.New(notFound), "", http.StatusNotFound)
	case errors.Is(err, repositories.ErrConflict):
		common.RespondError(w, initTime, err, "", http.StatusConflict)
	default:
		common.RespondError(w, initTime, err, constants.MsgUnexpected)
	}
}
