package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is a registered app user. Phone is stored normalized and is the
// directory key; FCMToken is the device push target and may be empty.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128" json:"nombre"`
	Phone     string    `gorm:"size:16;uniqueIndex" json:"telefono"`
	FCMToken  string    `gorm:"size:512" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// FindUserByPhone resolves a normalized phone. A missing user is reported as
// (nil, nil), not as an error.
func FindUserByPhone(db *gorm.DB, phone string) (*User, error) {
	var user User
	err := db.Where("phone = ?", phone).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUserByPhone registers or refreshes a directory entry.
func UpsertUserByPhone(db *gorm.DB, name, phone, fcmToken string) (*User, error) {
	user := User{Name: name, Phone: phone, FCMToken: fcmToken}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "fcm_token", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}
	// the conflict path does not backfill the id
	return FindUserByPhone(db, phone)
}
