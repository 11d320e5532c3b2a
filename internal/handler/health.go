package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reporta el estado del stub. No hay almacenamiento externo que
// verificar: si el proceso responde, está sano.
func Health() gin.HandlerFunc {
	inicio := time.Now()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"uptime": time.Since(inicio).Round(time.Second).String(),
		})
	}
}
