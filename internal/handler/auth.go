package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/break-dev/BlackSilver-sub000/internal/apierror"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/middleware"
	"github.com/break-dev/BlackSilver-sub000/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}

// Menu devuelve el árbol de navegación según el rol del token. El cliente lo
// renderiza tal cual: agregar una pantalla nueva no requiere tocar el cliente.
func (h *AuthHandler) Menu(c *gin.Context) {
	claims := middleware.GetClaims(c)
	menu := h.svc.Menu(c.Request.Context(), claims.Rol)
	c.JSON(http.StatusOK, apierror.Exito(menu))
}
