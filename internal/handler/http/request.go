package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
)

const (
	// maxMultipartBody leaves room for the form fields around a full-size picture.
	maxMultipartBody = file.MaxProfilePictureSize + 1<<20

	multipartMemory = 1 << 20

	maxJSONBody = 64 << 10

	dataField           = "data"
	profilePictureField = "profilePicture"
)

// decodeJSON decodes a capped JSON body into dst. On failure the response has
// already been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.RequestEntityTooLarge(w, "Request body is too large")
			return false
		}
		slog.Error("Failed to decode JSON body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeEmployeeBody fills dst from a JSON body, or from the "data" field of a
// multipart form. The optional "profilePicture" part is returned as an upload.
// On failure the response has already been written and ok is false. The
// returned cleanup must be called once the upload has been consumed.
func decodeEmployeeBody(w http.ResponseWriter, r *http.Request, dst interface{}) (upload *employee.UploadedFile, cleanup func(), ok bool) {
	cleanup = func() {}

	if !isMultipart(r) {
		return nil, cleanup, decodeJSON(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, file.ErrFileTooLarge)
			return nil, cleanup, false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, cleanup, false
	}
	form := r.MultipartForm
	cleanup = func() {
		if err := form.RemoveAll(); err != nil {
			slog.Warn("Failed to remove multipart temp files", "error", err)
		}
	}

	if dataJSON := r.FormValue(dataField); dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			cleanup()
			return nil, func() {}, false
		}
	}

	f, header, err := r.FormFile(profilePictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, cleanup, true
		}
		slog.Error("Failed to read profile picture part", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		cleanup()
		return nil, func() {}, false
	}

	removeForm := cleanup
	cleanup = func() {
		f.Close()
		removeForm()
	}
	return &employee.UploadedFile{Content: f, FileName: header.Filename}, cleanup, true
}
