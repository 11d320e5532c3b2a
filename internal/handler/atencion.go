package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/break-dev/BlackSilver-sub000/internal/apierror"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/infra"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
	"github.com/break-dev/BlackSilver-sub000/internal/service"
)

type AtencionHandler struct {
	svc      service.AtencionService
	reqs     service.RequerimientoService
	usuarios repository.UsuarioRepository
	notas    *infra.GeneradorNotas
}

func NewAtencionHandler(svc service.AtencionService, reqs service.RequerimientoService, usuarios repository.UsuarioRepository, notas *infra.GeneradorNotas) *AtencionHandler {
	return &AtencionHandler{svc: svc, reqs: reqs, usuarios: usuarios, notas: notas}
}

func (h *AtencionHandler) ObtenerPendientes(c *gin.Context) {
	var req dto.ObtenerPendientesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ObtenerPendientes(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}

func (h *AtencionHandler) CambiarEstadoDetalle(c *gin.Context) {
	var req dto.CambiarEstadoDetalleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorDesdeClaims(c, h.usuarios)
	if !ok {
		return
	}
	if err := h.svc.CambiarEstadoDetalle(c.Request.Context(), actor, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.ExitoMensaje("Estado actualizado"))
}

func (h *AtencionHandler) ObtenerLotes(c *gin.Context) {
	var req dto.ObtenerLotesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ObtenerLotes(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.Exito(resp))
}

func (h *AtencionHandler) RegistrarEntrega(c *gin.Context) {
	var req dto.RegistrarEntregaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorDesdeClaims(c, h.usuarios)
	if !ok {
		return
	}
	if err := h.svc.RegistrarEntrega(c.Request.Context(), actor, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}

	// La nota de entrega es un subproducto: si el PDF falla, la entrega ya
	// quedó registrada y solo se deja constancia en el log.
	if h.notas != nil {
		if detalle, err := h.reqs.ObtenerPorID(c.Request.Context(), req.IDRequerimiento); err == nil {
			if ruta, err := h.notas.NotaDeEntrega(detalle, req, actor.Nombre); err != nil {
				log.Warn().Err(err).Str("requerimiento", req.IDRequerimiento).Msg("no se pudo generar la nota de entrega")
			} else {
				log.Info().Str("ruta", ruta).Msg("nota de entrega generada")
			}
		}
	}

	c.JSON(http.StatusOK, apierror.ExitoMensaje("Entrega registrada"))
}

func (h *AtencionHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorDesdeClaims(c, h.usuarios)
	if !ok {
		return
	}
	if err := h.svc.Finalizar(c.Request.Context(), actor, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fallo(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.ExitoMensaje("Requerimiento finalizado"))
}
