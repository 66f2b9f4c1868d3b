package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dbContextKey = "db"

// InjectDB makes the gorm handle available to handlers via the gin context.
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// DB returns the injected handle, or nil when the middleware is not mounted.
func DB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(dbContextKey); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}
