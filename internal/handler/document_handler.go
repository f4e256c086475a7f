package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heliosign/internal/domain"
	"heliosign/internal/middleware"
	"heliosign/internal/service"
)

// DocumentHandler handles staff-facing document lifecycle endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a PDF upload and creates a draft document.
//
//	@Summary		Upload document
//	@Description	Upload a PDF to start a signing workflow
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file				formData	file	true	"PDF file"
//	@Param			title				formData	string	false	"Document title (defaults to file name)"
//	@Param			sequential_signing	formData	bool	false	"Signers must sign in order"
//	@Success		201	{object}	APIResponse
//	@Failure		413	{object}	APIResponse
//	@Router			/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to open uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read uploaded file")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}
	sequential, _ := strconv.ParseBool(c.PostForm("sequential_signing"))

	doc, err := h.documentService.Upload(c.Request.Context(), service.UploadDocumentInput{
		Title:             title,
		FileName:          fileHeader.Filename,
		Content:           content,
		SequentialSigning: sequential,
		UploadedBy:        userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// Get returns a document with its fields and signers.
//
//	@Summary		Get document
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	detail, err := h.documentService.Get(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// List returns documents, optionally filtered by status.
//
//	@Summary		List documents
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query	string	false	"Filter by status"
//	@Param			offset	query	int		false	"Pagination offset"
//	@Param			limit	query	int		false	"Pagination limit"
//	@Success		200	{object}	APIResponse
//	@Router			/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	status := domain.DocumentStatus(c.Query("status"))

	docs, total, err := h.documentService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, total, offset, limit)
}

// AddField places a signature field on a draft document.
//
//	@Summary		Add field
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string				true	"Document ID"
//	@Param			request	body	service.FieldInput	true	"Field placement"
//	@Success		201	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/documents/{id}/fields [post]
func (h *DocumentHandler) AddField(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	var input service.FieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	field, err := h.documentService.AddField(c.Request.Context(), docID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, field)
}

// UpdateField moves or reconfigures a field on a draft document.
//
//	@Summary		Update field
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string				true	"Document ID"
//	@Param			fieldId	path	string				true	"Field ID"
//	@Param			request	body	service.FieldInput	true	"Field placement"
//	@Success		200	{object}	APIResponse
//	@Router			/documents/{id}/fields/{fieldId} [put]
func (h *DocumentHandler) UpdateField(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid field id")
		return
	}

	var input service.FieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	field, err := h.documentService.UpdateField(c.Request.Context(), docID, fieldID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, field)
}

// RemoveField removes a field from a draft document.
//
//	@Summary		Remove field
//	@Tags			documents
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Document ID"
//	@Param			fieldId	path	string	true	"Field ID"
//	@Success		204
//	@Router			/documents/{id}/fields/{fieldId} [delete]
func (h *DocumentHandler) RemoveField(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	fieldID, err := uuid.Parse(c.Param("fieldId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid field id")
		return
	}

	if err := h.documentService.RemoveField(c.Request.Context(), docID, fieldID); err != nil {
		HandleError(c, err)
		return
	}

	RespondNoContent(c)
}

// AddSigner adds a signer to a draft document.
//
//	@Summary		Add signer
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string				true	"Document ID"
//	@Param			request	body	service.SignerInput	true	"Signer details"
//	@Success		201	{object}	APIResponse
//	@Failure		409	{object}	APIResponse
//	@Router			/documents/{id}/signers [post]
func (h *DocumentHandler) AddSigner(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	var input service.SignerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	signer, err := h.documentService.AddSigner(c.Request.Context(), docID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, signer)
}

// ReorderSigners rewrites the signing order on a draft document.
//
//	@Summary		Reorder signers
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string		true	"Document ID"
//	@Param			request	body	object{signer_ids=[]string}	true	"Signer IDs in the new order"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/documents/{id}/signers/order [put]
func (h *DocumentHandler) ReorderSigners(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	var body struct {
		SignerIDs []uuid.UUID `json:"signer_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.documentService.ReorderSigners(c.Request.Context(), docID, body.SignerIDs); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"signer_ids": body.SignerIDs})
}

// RemoveSigner removes a signer from a draft document.
//
//	@Summary		Remove signer
//	@Tags			documents
//	@Security		BearerAuth
//	@Param			id			path	string	true	"Document ID"
//	@Param			signerId	path	string	true	"Signer ID"
//	@Success		204
//	@Router			/documents/{id}/signers/{signerId} [delete]
func (h *DocumentHandler) RemoveSigner(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	signerID, err := uuid.Parse(c.Param("signerId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid signer id")
		return
	}

	if err := h.documentService.RemoveSigner(c.Request.Context(), docID, signerID); err != nil {
		HandleError(c, err)
		return
	}

	RespondNoContent(c)
}

// Send validates setup and dispatches signing requests to signers.
//
//	@Summary		Send document
//	@Description	Move a draft to SENT and email signing links
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Router			/documents/{id}/send [post]
func (h *DocumentHandler) Send(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	if err := h.documentService.Send(c.Request.Context(), docID, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"status": domain.DocumentStatusSent})
}

// Void cancels an in-flight document.
//
//	@Summary		Void document
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{object}	APIResponse
//	@Failure		410	{object}	APIResponse
//	@Router			/documents/{id}/void [post]
func (h *DocumentHandler) Void(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := h.documentService.Void(c.Request.Context(), docID, userID, body.Reason); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"status": domain.DocumentStatusVoided})
}

// DownloadURL returns a presigned URL for the current document PDF.
//
//	@Summary		Download URL
//	@Description	Presigned URL for the completed PDF when available, the original otherwise
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{object}	APIResponse
//	@Router			/documents/{id}/download [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// AuditTrail returns the chronological audit log for a document.
//
//	@Summary		Audit trail
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Document ID"
//	@Param			offset	query	int		false	"Pagination offset"
//	@Param			limit	query	int		false	"Pagination limit"
//	@Success		200	{object}	APIResponse
//	@Router			/documents/{id}/audit [get]
func (h *DocumentHandler) AuditTrail(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	offset, limit := parsePagination(c)

	entries, total, err := h.documentService.AuditTrail(c.Request.Context(), docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, entries, total, offset, limit)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
