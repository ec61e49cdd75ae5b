package api

import (
	"log"
	"net/http"

	"contactbox/internal/models"
	"contactbox/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *service.MessageService
}

func NewAPIHandler(service *service.MessageService) *Handler {
	return &Handler{Service: service}
}

func successResponse(message string, data any) models.APIResponse {
	return models.APIResponse{Success: true, Message: message, Data: data}
}

func errorResponse(message string) models.APIResponse {
	return models.APIResponse{Success: false, Message: message}
}

// SaveMessage handles POST /api/messages/push
func (h *Handler) SaveMessage(c *gin.Context) {
	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}
	log.Printf("Received save request for email: %s", req.Email)
	saved, err := h.Service.Save(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error saving message: "+err.Error()))
		return
	}
	c.JSON(http.StatusCreated, successResponse("Message saved successfully", saved))
}

// UpdateMessage handles PUT /api/messages/:id
func (h *Handler) UpdateMessage(c *gin.Context) {
	id := c.Param("id")
	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}
	log.Printf("Received update request for ID: %s", id)
	updated, err := h.Service.Update(id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error updating message: "+err.Error()))
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, errorResponse("Message not found with ID: "+id))
		return
	}
	c.JSON(http.StatusOK, successResponse("Message updated successfully", updated))
}

// GetMessageByID handles GET /api/messages/:id
func (h *Handler) GetMessageByID(c *gin.Context) {
	id := c.Param("id")
	msg, err := h.Service.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error retrieving message: "+err.Error()))
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, errorResponse("Message not found with ID: "+id))
		return
	}
	c.JSON(http.StatusOK, successResponse("Message retrieved successfully", msg))
}

// GetMessageByEmail handles GET /api/messages/email/:email
func (h *Handler) GetMessageByEmail(c *gin.Context) {
	email := c.Param("email")
	msg, err := h.Service.GetByEmail(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error retrieving message: "+err.Error()))
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, errorResponse("Message not found with email: "+email))
		return
	}
	c.JSON(http.StatusOK, successResponse("Message retrieved successfully", msg))
}

// GetMessageByFingerprint handles GET /api/messages/fingerprint/:fingerprint
func (h *Handler) GetMessageByFingerprint(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	msg, err := h.Service.GetByFingerprint(fingerprint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error retrieving message: "+err.Error()))
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, errorResponse("Message not found with fingerprint: "+fingerprint))
		return
	}
	c.JSON(http.StatusOK, successResponse("Message retrieved successfully", msg))
}

// GetAllMessages handles GET /api/messages
func (h *Handler) GetAllMessages(c *gin.Context) {
	messages, err := h.Service.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error retrieving messages: "+err.Error()))
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, successResponse("Messages retrieved successfully", messages))
}

// DeleteMessage handles DELETE /api/messages/:id
func (h *Handler) DeleteMessage(c *gin.Context) {
	id := c.Param("id")
	log.Printf("Received delete request for ID: %s", id)
	deleted, err := h.Service.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error deleting message: "+err.Error()))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse("Message not found with ID: "+id))
		return
	}
	c.JSON(http.StatusOK, successResponse("Message deleted successfully", nil))
}
