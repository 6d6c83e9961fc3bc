package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/constants"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/importer"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/middleware"
	"dispatch-app/backend/internal/services"

	"github.com/go-chi/chi/v5"
)

const uploadField = "file"

// UploadImport handles POST /api/imports?type=&format=
// The spreadsheet is sent as multipart field "file".
func (h *Handlers) UploadImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		log := logging.WithRequest(middleware.GetRequestID(r.Context()), "/api/imports")

		if r.ContentLength > h.deps.MaxUploadBytes {
			common.RespondError(w, initTime, fmt.Errorf("file exceeds %d bytes", h.deps.MaxUploadBytes), "", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes)
		file, header, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondError(w, initTime, fmt.Errorf("file exceeds %d bytes", tooLarge.Limit), "", http.StatusRequestEntityTooLarge)
				return
			}
			common.RespondError(w, initTime, fmt.Errorf("multipart field %q is required", uploadField), "", http.StatusBadRequest)
			return
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			common.RespondError(w, initTime, err, constants.MsgImportUnreadable, http.StatusBadRequest)
			return
		}

		typeName := r.URL.Query().Get("type")
		if typeName == "" {
			typeName = r.FormValue("type")
		}
		preview, err := h.deps.Services.Imports.Upload(r.Context(), services.ImportUpload{
			Type:     typeName,
			FileName: header.Filename,
			Format:   r.URL.Query().Get("format"),
			Data:     buf.Bytes(),
		})
		if err != nil {
			log.Warnw("Import upload rejected", "file", header.Filename, "error", err.Error())
			respondServiceError(w, initTime, err, "")
			return
		}

		message := "Import preview ready"
		if !preview.Readable {
			message = constants.MsgImportUnreadable
		}
		common.RespondSuccess(w, initTime, message, preview, http.StatusCreated)
	}
}

// GetImport handles GET /api/imports/{id}?q=&warehouse=&priority=&sort=&dir=
func (h *Handlers) GetImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		pq, err := parsePreviewQuery(r)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		preview, err := h.deps.Services.Imports.Get(r.Context(), chi.URLParam(r, "id"), pq)
		if err != nil {
			respondServiceError(w, initTime, err, constants.MsgPreviewNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "", preview)
	}
}

// CommitImport handles POST /api/imports/{id}/commit
func (h *Handlers) CommitImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		result, err := h.deps.Services.Imports.Commit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			var verr *services.ValidationError
			if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrConflict) || errors.As(err, &verr) {
				respondServiceError(w, initTime, err, constants.MsgPreviewNotFound)
				return
			}
			common.RespondError(w, initTime, err, constants.MsgImportCommitFailed)
			return
		}
		common.RespondSuccess(w, initTime, fmt.Sprintf("Imported %d jobs", result.Imported), result, http.StatusCreated)
	}
}

// DiscardImport handles DELETE /api/imports/{id}
func (h *Handlers) DiscardImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Imports.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err, constants.MsgPreviewNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Import preview discarded", nil)
	}
}

// ImportTemplate handles GET /api/imports/template?type=ibt|order&format=csv|xlsx
func (h *Handlers) ImportTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		jobType, format, err := h.deps.Services.Imports.TemplateFormat(r.URL.Query().Get("type"), r.URL.Query().Get("format"))
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		var buf bytes.Buffer
		if err := importer.WriteTemplate(&buf, jobType, format); err != nil {
			common.RespondError(w, initTime, err, constants.MsgUnexpected)
			return
		}
		writeAttachment(w, fmt.Sprintf("%s-template.%s", jobType, format), format, buf.Bytes())
	}
}

func contentType(format importer.Format) string {
	if format == importer.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func writeAttachment(w http.ResponseWriter, fileName string, format importer.Format, body []byte) {
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Warn("Failed to write attachment", "file", fileName, "error", err.Error())
	}
}
