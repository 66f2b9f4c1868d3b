package handlers

import (
	"net/http"

	"BotonPanico/internal/models"
	"BotonPanico/pkg/response"

	"github.com/gin-gonic/gin"
)

type registerUserRequest struct {
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	FCMToken string `json:"fcmToken"`
}

// handleRegisterUser upserts a directory entry. Registration proper lives in
// the mobile app's backend; this endpoint keeps the relay self-contained.
func (h *Handlers) handleRegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "solicitud inválida")
		return
	}

	phone, ok := models.NormalizePhone(req.Telefono)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "número de teléfono inválido")
		return
	}

	user, err := models.UpsertUserByPhone(h.db, req.Nombre, phone, req.FCMToken)
	if err != nil {
		h.failFromError(c, err)
		return
	}

	// the directory may hold a stale token for this number
	h.directory.Invalidate(c.Request.Context(), phone)

	response.Success(c, gin.H{
		"usuario": gin.H{
			"id":       user.ID,
			"nombre":   user.Name,
			"telefono": user.Phone,
		},
	})
}
