package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, logger *zap.Logger) {
	SetupAuthRoutes(r, db)
	SetupCatalogRoutes(r, db)
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db, logger)
	SetupMiscRoutes(r, db)
}

// SetupMiscRoutes covers the pages that are neither catalog nor cart.
func SetupMiscRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
