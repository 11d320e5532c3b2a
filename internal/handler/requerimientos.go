package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/apierror"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/middleware"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
	"github.com/break-dev/BlackSilver-sub000/internal/service"
)

type RequerimientosHandler struct {
	svc      service.RequerimientoService
	usuarios repository.UsuarioRepository
}

func NewRequerimientosHandler(svc service.RequerimientoService, usuarios repository.UsuarioRepository) *RequerimientosHandler {
	return &RequerimientosHandler{svc: svc, usuarios: usuarios}
}

// actorDesdeClaims resuelve el usuario autenticado a partir del token. Falla
// con 401 si el usuario del token ya no existe.
func actorDesdeClaims(c *gin.Context, usuarios repository.UsuarioRepository) (*model.Usuario, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.Fallo("Token invalido"))
		return nil, false
	}
	actor, err := usuarios.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.Fallo("Usuario no encontrado"))
		return nil, false
	}
	return actor, true
}

func (h *RequerimientosHandler) Crear(c *gin.Context) {
	var req dto.CrearRequerimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorDesdeClaims(c, h.usuarios)
	if !ok {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, apierror.Exito(resp))
}

func (h *RequerimientosHandler) Listar(c *gin.Context) {
	idMina := c.Query("id_mina")
	if idMina == "" {
		c.JSON(http.StatusBadRequest, apierror.Fallo("id_mina es obligatorio"))
		return
	}
	resp, err := h.svc.ListarPorMina(c.Request.Context(), idMina)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}

func (h *RequerimientosHandler) ObtenerPorID(c *gin.Context) {
	var req dto.ObtenerRequerimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), req.IDRequerimiento)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}

func (h *RequerimientosHandler) Trazabilidad(c *gin.Context) {
	var req dto.TrazabilidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Trazabilidad(c.Request.Context(), req.IDDetalle)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}
