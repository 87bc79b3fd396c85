package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/dmitrijs2005/drivault/internal/server/files"
)

// uploadMaxMemory caps the in-memory portion of multipart parsing; larger
// parts spill to temporary files.
const uploadMaxMemory = 32 << 20

type fileResponse struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	StoredName string         `json:"stored_name"`
	MimeType   *string        `json:"mime_type"`
	Type       string         `json:"type"`
	Extension  *string        `json:"extension"`
	Size       int64          `json:"size"`
	AccessType string         `json:"access_type"`
	Metadata   map[string]any `json:"metadata"`
	SharedWith []int64        `json:"shared_with"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toFileResponse(f *files.File) fileResponse {
	resp := fileResponse{
		ID:         f.ID,
		Name:       f.Name,
		StoredName: f.StoredName,
		MimeType:   f.MimeType,
		Type:       string(f.Type),
		Size:       f.Size,
		AccessType: string(f.AccessType),
		Metadata:   f.Metadata,
		SharedWith: f.SharedWith,
		CreatedAt:  f.CreatedAt,
	}
	if f.Extension != nil {
		ext := string(*f.Extension)
		resp.Extension = &ext
	}
	return resp
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {

	user := CurrentUser(r.Context())

	records, err := h.files.List(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]fileResponse, 0, len(records))
	for _, f := range records {
		result = append(result, toFileResponse(f))
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) uploadFiles(w http.ResponseWriter, r *http.Request) {

	user := CurrentUser(r.Context())

	if err := r.ParseMultipartForm(uploadMaxMemory); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		h.writeError(w, r, http.StatusBadRequest, "no files provided")
		return
	}

	uploads := make([]files.Upload, 0, len(parts))
	opened := make([]interface{ Close() error }, 0, len(parts))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "cannot read uploaded file")
			return
		}
		opened = append(opened, src)

		uploads = append(uploads, files.Upload{
			Filename: part.Filename,
			MimeType: part.Header.Get("Content-Type"),
			Data:     src,
		})
	}

	records, err := h.files.Ingest(r.Context(), user.ID, user.Email, uploads)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidFilename):
			h.writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrorAlreadyExists):
			h.writeError(w, r, http.StatusConflict, "a file with this stored name already exists")
		default:
			h.logger.Error(r.Context(), "upload failed", "error", err)
			h.writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	result := make([]fileResponse, 0, len(records))
	for _, f := range records {
		result = append(result, toFileResponse(f))
	}

	h.writeJSON(w, http.StatusCreated, result)
}
