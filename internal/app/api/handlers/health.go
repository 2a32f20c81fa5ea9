package handlers

import (
	"net/http"

	"github.com/fatflowers/duesledger/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary      Health check
// @Description  Reports whether the service can reach its database
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func Healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeError, map[string]string{"status": "degraded", "database": err.Error()}))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "ok", "database": "ok"}))
	}
}

func RegisterHealthRoutes(r gin.IRouter, db *gorm.DB) {
	r.GET("/healthz", Healthz(db))
}
