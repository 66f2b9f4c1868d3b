package handlers

import (
	"net/http"

	"BotonPanico/internal/models"
	"BotonPanico/pkg/errors"
	"BotonPanico/pkg/logger"
	"BotonPanico/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createAlertRequest struct {
	SenderName  string   `json:"senderName"`
	SenderPhone string   `json:"senderPhone"`
	Message     string   `json:"message"`
	Location    string   `json:"location"`
	Contacts    []string `json:"contacts"`
}

func (h *Handlers) handleCreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "lista de contactos inválida")
		return
	}
	if len(req.Contacts) == 0 {
		response.Fail(c, http.StatusBadRequest, "lista de contactos inválida")
		return
	}

	result, err := models.CreateAlertEvent(c.Request.Context(), h.db, h.directory, h.pusher, models.CreateAlertInput{
		SenderName:  req.SenderName,
		SenderPhone: req.SenderPhone,
		Message:     req.Message,
		Location:    req.Location,
		Contacts:    req.Contacts,
	})
	if err != nil {
		h.failFromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"registrados":   result.Registered,
		"noRegistrados": result.Unregistered,
		"detalles":      result.Details,
	})
}

func (h *Handlers) handleListAlerts(c *gin.Context) {
	phone, received, sent, err := models.ListAlertsByPhone(h.db, c.Param("telefono"))
	if err != nil {
		h.failFromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"telefono":  phone,
		"recibidas": received,
		"enviadas":  sent,
	})
}

func (h *Handlers) handleFinalizeAlert(c *gin.Context) {
	if err := models.FinalizeAlert(h.db, c.Param("id")); err != nil {
		h.failFromError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "alerta finalizada"})
}

// failFromError maps model errors to HTTP responses. Errors without a code
// are unexpected dependency failures: logged with detail, reported
// generically.
func (h *Handlers) failFromError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == 0 {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, "error interno del servidor")
		return
	}
	response.Fail(c, code, errors.GetMessage(err))
}
