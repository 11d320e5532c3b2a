package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS limita las llamadas de navegador a los orígenes configurados. Una
// lista que contiene "*" abre cualquier origen (modo desarrollo); para un
// origen fuera de la lista no se emite Access-Control-Allow-Origin y el
// navegador descarta la respuesta.
func CORS(origenes []string) gin.HandlerFunc {
	comodin := false
	permitidos := make(map[string]struct{}, len(origenes))
	for _, o := range origenes {
		if o == "*" {
			comodin = true
			continue
		}
		permitidos[o] = struct{}{}
	}

	return func(c *gin.Context) {
		if comodin {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := permitidos[c.GetHeader("Origin")]; ok {
			c.Header("Access-Control-Allow-Origin", c.GetHeader("Origin"))
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
