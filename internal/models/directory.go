package models

import (
	"context"
	"encoding/json"
	"time"

	"BotonPanico/pkg/cache"

	"gorm.io/gorm"
)

// Directory resolves normalized phone numbers to registered users, caching
// hits so a fan-out over a large contact list does not hammer the database.
type Directory struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

func NewDirectory(db *gorm.DB, c cache.Cache, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Directory{db: db, cache: c, ttl: ttl}
}

func userCacheKey(phone string) string { return "user:" + phone }

// cachedUser exists because User hides the push token from API JSON; the
// cache entry must keep it.
type cachedUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"nombre"`
	Phone    string `json:"telefono"`
	FCMToken string `json:"fcmToken"`
}

// Resolve returns (nil, nil) for unregistered numbers; errors are real
// lookup failures.
func (d *Directory) Resolve(ctx context.Context, phone string) (*User, error) {
	if d.cache != nil {
		if raw, ok := d.cache.Get(ctx, userCacheKey(phone)); ok {
			var cu cachedUser
			if err := json.Unmarshal(raw, &cu); err == nil {
				return &User{ID: cu.ID, Name: cu.Name, Phone: cu.Phone, FCMToken: cu.FCMToken}, nil
			}
		}
	}

	user, err := FindUserByPhone(d.db, phone)
	if err != nil || user == nil {
		return nil, err
	}

	if d.cache != nil {
		cu := cachedUser{ID: user.ID, Name: user.Name, Phone: user.Phone, FCMToken: user.FCMToken}
		if raw, err := json.Marshal(cu); err == nil {
			_ = d.cache.Set(ctx, userCacheKey(phone), raw, d.ttl)
		}
	}
	return user, nil
}

// Invalidate drops a cached entry after a registration update.
func (d *Directory) Invalidate(ctx context.Context, phone string) {
	if d.cache != nil {
		_ = d.cache.Delete(ctx, userCacheKey(phone))
	}
}
