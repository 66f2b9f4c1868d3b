package models

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"BotonPanico/pkg/errors"
	"BotonPanico/pkg/logger"
	"BotonPanico/pkg/metrics"
	"BotonPanico/pkg/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	AlertStatusActive   = "activa"
	AlertStatusFinished = "finalizada"

	DirectionSent     = "enviada"
	DirectionReceived = "recibida"
)

// Alert is one row of a fan-out. A single emergency event produces one
// "enviada" summary row in the sender's mailbox plus one "recibida" row per
// registered recipient; every row carries the same EventID so finalizing is
// one indexed update instead of a scan over all mailboxes.
type Alert struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	EventID        string    `gorm:"size:36;index" json:"id"`
	Direction      string    `gorm:"size:16" json:"-"`
	OwnerPhone     string    `gorm:"size:16;index" json:"-"`
	SenderName     string    `gorm:"size:128" json:"nombreEmisor"`
	SenderPhone    string    `gorm:"size:16" json:"telefonoEmisor"`
	RecipientName  string    `gorm:"size:128" json:"nombreReceptor,omitempty"`
	RecipientPhone string    `gorm:"size:16" json:"telefonoReceptor,omitempty"`
	Message        string    `gorm:"type:text" json:"mensaje"`
	Location       string    `gorm:"type:text" json:"ubicacion"`
	Status         string    `gorm:"size:16" json:"estado"`
	Timestamp      time.Time `json:"timestamp"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

var (
	ErrInvalidSenderPhone = errors.WithCode(http.StatusBadRequest, "número del remitente inválido")
	ErrInvalidPhone       = errors.WithCode(http.StatusBadRequest, "número de teléfono inválido")
	ErrSenderNotFound     = errors.WithCode(http.StatusForbidden, "el remitente no está registrado")
	ErrUserNotFound       = errors.WithCode(http.StatusNotFound, "usuario no encontrado")
	ErrAlertNotFound      = errors.WithCode(http.StatusNotFound, "alerta no encontrada")
)

type CreateAlertInput struct {
	SenderName  string
	SenderPhone string
	Message     string
	Location    string
	Contacts    []string
}

// RecipientDetail identifies one registered recipient in the response.
type RecipientDetail struct {
	ID    uint   `json:"id"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono"`
}

type CreateAlertResult struct {
	EventID      string
	Registered   int
	Unregistered int
	Details      []RecipientDetail
}

// CreateAlertEvent runs the fan-out: resolve the sender, then for each
// contact independently normalize, resolve, persist a received copy and
// attempt one best-effort push. Unregistered or malformed contacts are
// counted, never fatal; a push failure is logged and absorbed. Writes already
// made are not rolled back if a later one fails.
func CreateAlertEvent(ctx context.Context, db *gorm.DB, dir *Directory, pusher notification.PushClient, in CreateAlertInput) (*CreateAlertResult, error) {
	senderPhone, ok := NormalizePhone(in.SenderPhone)
	if !ok {
		return nil, ErrInvalidSenderPhone
	}
	sender, err := dir.Resolve(ctx, senderPhone)
	if err != nil {
		return nil, errors.Wrap(err, "error consultando el directorio")
	}
	if sender == nil {
		return nil, ErrSenderNotFound
	}

	senderName := in.SenderName
	if senderName == "" {
		senderName = sender.Name
	}

	result := &CreateAlertResult{
		EventID: uuid.NewString(),
		Details: make([]RecipientDetail, 0, len(in.Contacts)),
	}
	now := time.Now()

	for _, raw := range in.Contacts {
		phone, ok := NormalizePhone(raw)
		if !ok {
			result.Unregistered++
			metrics.RecipientSkipped()
			continue
		}
		recipient, err := dir.Resolve(ctx, phone)
		if err != nil {
			logger.Warn("directory lookup failed", zap.String("telefono", phone), zap.Error(err))
			result.Unregistered++
			metrics.RecipientSkipped()
			continue
		}
		if recipient == nil {
			result.Unregistered++
			metrics.RecipientSkipped()
			continue
		}

		copyRow := Alert{
			EventID:        result.EventID,
			Direction:      DirectionReceived,
			OwnerPhone:     recipient.Phone,
			SenderName:     senderName,
			SenderPhone:    senderPhone,
			RecipientName:  recipient.Name,
			RecipientPhone: recipient.Phone,
			Message:        in.Message,
			Location:       in.Location,
			Status:         AlertStatusActive,
			Timestamp:      now,
		}
		if err := db.Create(&copyRow).Error; err != nil {
			return nil, errors.Wrap(err, "error guardando la alerta")
		}

		result.Registered++
		metrics.RecipientRegistered()
		result.Details = append(result.Details, RecipientDetail{
			ID:    recipient.ID,
			Name:  recipient.Name,
			Phone: recipient.Phone,
		})

		if recipient.FCMToken != "" {
			msg := notification.PushMessage{
				Title: "¡Emergencia!",
				Body:  fmt.Sprintf("%s necesita ayuda", senderName),
				Data: map[string]string{
					"tipo":      "emergencia",
					"id":        result.EventID,
					"telefono":  senderPhone,
					"mensaje":   in.Message,
					"ubicacion": in.Location,
				},
			}
			if err := pusher.Push(ctx, recipient.FCMToken, msg); err != nil {
				logger.Warn("push delivery failed",
					zap.String("telefono", recipient.Phone), zap.Error(err))
				metrics.PushFailed()
			} else {
				metrics.PushDelivered()
			}
		}
	}

	if result.Registered > 0 {
		summary := Alert{
			EventID:     result.EventID,
			Direction:   DirectionSent,
			OwnerPhone:  senderPhone,
			SenderName:  senderName,
			SenderPhone: senderPhone,
			Message:     in.Message,
			Location:    in.Location,
			Status:      AlertStatusActive,
			Timestamp:   now,
		}
		if err := db.Create(&summary).Error; err != nil {
			return nil, errors.Wrap(err, "error guardando la alerta")
		}
		metrics.AlertCreated()
	}

	return result, nil
}

// ListAlertsByPhone returns the user's received and sent alerts, newest
// first. Empty mailboxes are a success with empty lists.
func ListAlertsByPhone(db *gorm.DB, rawPhone string) (phone string, received, sent []Alert, err error) {
	phone, ok := NormalizePhone(rawPhone)
	if !ok {
		return "", nil, nil, ErrInvalidPhone
	}
	user, err := FindUserByPhone(db, phone)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "error consultando el directorio")
	}
	if user == nil {
		return "", nil, nil, ErrUserNotFound
	}

	received = make([]Alert, 0)
	sent = make([]Alert, 0)

	err = db.Where("owner_phone = ? AND direction = ?", phone, DirectionReceived).
		Order("timestamp DESC").Find(&received).Error
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "error consultando alertas")
	}
	err = db.Where("owner_phone = ? AND direction = ?", phone, DirectionSent).
		Order("timestamp DESC").Find(&sent).Error
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "error consultando alertas")
	}
	return phone, received, sent, nil
}

// FinalizeAlert flips every copy of the event to "finalizada". The update is
// keyed by the shared event id, so no mailbox scan is needed. Re-finalizing
// an already finished event is a no-op that still succeeds; an unknown id is
// not found.
func FinalizeAlert(db *gorm.DB, eventID string) error {
	res := db.Model(&Alert{}).
		Where("event_id = ? AND status = ?", eventID, AlertStatusActive).
		Update("status", AlertStatusFinished)
	if res.Error != nil {
		return errors.Wrap(res.Error, "error actualizando la alerta")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&Alert{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "error consultando la alerta")
		}
		if count == 0 {
			return ErrAlertNotFound
		}
	}
	return nil
}
