// Package response writes the JSON envelope every REST endpoint answers with.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
)

// MaxBodyBytes bounds request bodies. A full reorder batch fits comfortably.
const MaxBodyBytes = 1 << 20

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type MetaInfo struct {
	RequestID  string          `json:"requestId,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPagination(page, pageSize, total int) *PaginationInfo {
	if pageSize <= 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	pages := (total + pageSize - 1) / pageSize
	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

// JSON sends data wrapped in the envelope.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data})
}

func WithMeta(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta *MetaInfo) {
	if meta == nil {
		meta = &MetaInfo{}
	}
	meta.RequestID = middleware.GetReqID(r.Context())
	write(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data, Meta: meta})
}

// Error maps err to its status and error code. Internal and database
// failures are reported without their cause.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	info := &ErrorInfo{Code: "INTERNAL_ERROR", Message: "internal error"}
	if appErr := apperror.GetAppError(err); appErr != nil && status < http.StatusInternalServerError {
		info = &ErrorInfo{Code: code(appErr.Type), Message: appErr.Message, Details: appErr.Details}
	}
	write(w, status, APIResponse{
		Error: info,
		Meta:  &MetaInfo{RequestID: middleware.GetReqID(r.Context())},
	})
}

// DecodeJSON reads a size-limited JSON body into v. Malformed bodies come
// back as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.NewValidationError("request body too large")
		}
		return apperror.NewValidationError("invalid request body").WithCause(err)
	}
	return nil
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func code(t apperror.ErrorType) string {
	switch t {
	case apperror.ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case apperror.ErrorTypeNotFound:
		return "NOT_FOUND"
	case apperror.ErrorTypeConflict:
		return "CONFLICT"
	case apperror.ErrorTypeUnauthorized:
		return "UNAUTHORIZED"
	case apperror.ErrorTypeForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL_ERROR"
	}
}
