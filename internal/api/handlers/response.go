package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"veritas-lab/internal/domain/models"
	"veritas-lab/pkg/logger"
)

var errInvalidBody = errors.New("invalid request body")

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrImageTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrNoImage),
		errors.Is(err, models.ErrInvalidImageURL),
		errors.Is(err, models.ErrInvalidImageType),
		errors.Is(err, models.ErrEmptyText),
		errors.Is(err, models.ErrInvalidReport),
		errors.Is(err, models.ErrContactRequired),
		errors.Is(err, models.ErrEmptyMessage),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAnalysisInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text shown to the caller. Internal failures are not
// described.
func publicMessage(status int, err error) string {
	switch {
	case status == http.StatusInternalServerError:
		return "internal server error"
	case status == http.StatusRequestEntityTooLarge:
		return models.ErrImageTooLarge.Error()
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return models.ErrUpstreamUnavailable.Error()
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound.Error()
	}
	return rootMessage(err)
}

// rootMessage returns the sentinel's text when err wraps a known one
func rootMessage(err error) string {
	for _, s := range []error{
		models.ErrNoImage, models.ErrInvalidImageURL, models.ErrInvalidImageType,
		models.ErrEmptyText, models.ErrInvalidReport, models.ErrContactRequired,
		models.ErrEmptyMessage, models.ErrAnalysisInProgress, models.ErrUnauthorized,
		models.ErrStorageUnavailable, errInvalidBody,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}

// respondError logs server-side failures and writes the mapped error reply
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeError(w, status, publicMessage(status, err))
}

// decodeJSON reads a bounded JSON body
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readUpload reads the named multipart file. A missing file yields nil, nil.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxSize int64) ([]byte, error) {
	// form overhead on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize + 1<<20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, models.ErrNoImage
	}

	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, models.ErrNoImage
	}
	defer file.Close()

	// one extra byte lets the size check see an oversized file
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, err
	}
	return data, nil
}
