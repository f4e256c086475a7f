package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"heliosign/internal/domain"
	"heliosign/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata for list endpoints.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 with data.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 with data.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondNoContent sends a 204.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondPaginated sends a 200 with data and pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, total, offset, limit int) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &PagMeta{Total: total, Offset: offset, Limit: limit},
	})
}

// RespondError sends an error response with the given status.
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// MapDomainError maps a domain error to an HTTP status and error code.
func MapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrSignerNotFound):
		return http.StatusNotFound, "SIGNER_NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrFieldNotYours):
		return http.StatusForbidden, "FIELD_NOT_YOURS"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL"
	case errors.Is(err, domain.ErrDuplicateSignerEmail):
		return http.StatusConflict, "DUPLICATE_SIGNER_EMAIL"
	case errors.Is(err, domain.ErrFieldAlreadySigned):
		return http.StatusConflict, "FIELD_ALREADY_SIGNED"
	case errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusConflict, "NOT_YOUR_TURN"
	case errors.Is(err, domain.ErrSignerDeclined):
		return http.StatusConflict, "SIGNER_DECLINED"
	case errors.Is(err, domain.ErrDocumentNotDraft):
		return http.StatusConflict, "DOCUMENT_NOT_DRAFT"
	case errors.Is(err, domain.ErrDocumentNotSignable):
		return http.StatusGone, "DOCUMENT_NOT_SIGNABLE"
	case errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"
	case errors.Is(err, domain.ErrUnsupportedDocumentFormat):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_DOCUMENT_FORMAT"
	case errors.Is(err, domain.ErrHashMismatch):
		return http.StatusUnprocessableEntity, "HASH_MISMATCH"
	case errors.Is(err, domain.ErrInvalidFieldGeometry):
		return http.StatusBadRequest, "INVALID_FIELD_GEOMETRY"
	case errors.Is(err, domain.ErrInvalidFieldType):
		return http.StatusBadRequest, "INVALID_FIELD_TYPE"
	case errors.Is(err, domain.ErrInvalidCaptureMethod):
		return http.StatusBadRequest, "INVALID_CAPTURE_METHOD"
	case errors.Is(err, domain.ErrInvalidImageType):
		return http.StatusBadRequest, "INVALID_IMAGE_TYPE"
	case errors.Is(err, domain.ErrEmptySignature):
		return http.StatusBadRequest, "EMPTY_SIGNATURE"
	case errors.Is(err, domain.ErrSignerEmailRequired):
		return http.StatusBadRequest, "SIGNER_EMAIL_REQUIRED"
	case errors.Is(err, domain.ErrInvalidSigningOrder):
		return http.StatusBadRequest, "INVALID_SIGNING_ORDER"
	case errors.Is(err, domain.ErrNoFields):
		return http.StatusBadRequest, "NO_FIELDS"
	case errors.Is(err, domain.ErrNoSigners):
		return http.StatusBadRequest, "NO_SIGNERS"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// HandleError maps a domain error and sends the error response. Server
// errors are logged with the request ID for tracing.
func HandleError(c *gin.Context, err error) {
	status, code := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] %s %s: %v", requestID, c.Request.Method, c.Request.URL.Path, err)
	}
	RespondError(c, status, code, err.Error())
}
