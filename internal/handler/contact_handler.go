package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heliosign/internal/service"
)

// ContactHandler handles CRM contact endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create adds a contact to the book.
//
//	@Summary		Create contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	service.ContactInput	true	"Contact details"
//	@Success		201	{object}	APIResponse
//	@Router			/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var input service.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, contact)
}

// Get returns a single contact.
//
//	@Summary		Get contact
//	@Tags			contacts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Contact ID"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid contact id")
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), contactID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, contact)
}

// List returns contacts, optionally filtered by a search term over
// name, email and company.
//
//	@Summary		List contacts
//	@Tags			contacts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			search	query	string	false	"Search term"
//	@Param			offset	query	int		false	"Pagination offset"
//	@Param			limit	query	int		false	"Pagination limit"
//	@Success		200	{object}	APIResponse
//	@Router			/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	contacts, total, err := h.contactService.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, contacts, total, offset, limit)
}

// Update replaces a contact's details.
//
//	@Summary		Update contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string					true	"Contact ID"
//	@Param			request	body	service.ContactInput	true	"Contact details"
//	@Success		200	{object}	APIResponse
//	@Router			/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid contact id")
		return
	}

	var input service.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), contactID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, contact)
}

// Delete removes a contact.
//
//	@Summary		Delete contact
//	@Tags			contacts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Contact ID"
//	@Success		204
//	@Router			/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid contact id")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), contactID); err != nil {
		HandleError(c, err)
		return
	}

	RespondNoContent(c)
}
