package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heliosign/internal/domain"
	"heliosign/internal/esign"
	"heliosign/internal/service"
)

// SigningHandler handles the public, token-authenticated signing endpoints.
type SigningHandler struct {
	signingService service.SigningService
}

// NewSigningHandler creates a new SigningHandler.
func NewSigningHandler(signingService service.SigningService) *SigningHandler {
	return &SigningHandler{signingService: signingService}
}

// View returns the signing session for a token: the document, the
// signer's fields and whether it is their turn.
//
//	@Summary		View signing session
//	@Tags			signing
//	@Produce		json
//	@Param			token	path	string	true	"Signing token"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Failure		410	{object}	APIResponse
//	@Router			/sign/{token} [get]
func (h *SigningHandler) View(c *gin.Context) {
	view, err := h.signingService.View(c.Request.Context(), c.Param("token"), c.ClientIP())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SignField records a value for one of the signer's fields. Signature
// and initials fields accept a JSON body with the capture method and
// payload, or a multipart upload with an image file.
//
//	@Summary		Sign field
//	@Tags			signing
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string					true	"Signing token"
//	@Param			fieldId	path	string					true	"Field ID"
//	@Param			request	body	service.SignFieldInput	false	"Capture payload"
//	@Success		200	{object}	APIResponse
//	@Failure		409	{object}	APIResponse
//	@Router			/sign/{token}/fields/{fieldId} [post]
func (h *SigningHandler) SignField(c *gin.Context) {
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid field id")
		return
	}

	var input service.SignFieldInput
	if isMultipart(c) {
		input, err = parseUploadedCapture(c)
		if err != nil {
			HandleError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	view, err := h.signingService.SignField(c.Request.Context(), c.Param("token"), fieldID, input, c.ClientIP())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Decline records the signer's refusal and blocks the workflow.
//
//	@Summary		Decline to sign
//	@Tags			signing
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string	true	"Signing token"
//	@Success		200	{object}	APIResponse
//	@Router			/sign/{token}/decline [post]
func (h *SigningHandler) Decline(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := h.signingService.Decline(c.Request.Context(), c.Param("token"), body.Reason, c.ClientIP()); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"status": domain.SignerStatusDeclined})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data")
}

func parseUploadedCapture(c *gin.Context) (service.SignFieldInput, error) {
	input := service.SignFieldInput{Method: domain.CaptureMethodUploaded}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return input, domain.ErrEmptySignature
	}
	if fileHeader.Size > esign.MaxUploadBytes {
		return input, domain.ErrImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return input, domain.ErrEmptySignature
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, esign.MaxUploadBytes+1))
	if err != nil {
		return input, domain.ErrEmptySignature
	}
	if int64(len(data)) > esign.MaxUploadBytes {
		return input, domain.ErrImageTooLarge
	}

	input.ImageData = data
	return input, nil
}
