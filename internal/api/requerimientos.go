package api

import (
	"context"
	"net/url"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// ListarRequerimientos trae los requerimientos emitidos desde una mina.
func (c *Client) ListarRequerimientos(ctx context.Context, idMina string) ([]dto.RequerimientoResponse, error) {
	q := url.Values{}
	q.Set("id_mina", idMina)
	var resp []dto.RequerimientoResponse
	if err := c.get(ctx, "/requerimientos", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ObtenerRequerimiento trae el detalle completo (cabecera + líneas con su
// estado vigente). Es la recarga autoritativa después de cada transición.
func (c *Client) ObtenerRequerimiento(ctx context.Context, id string) (*dto.RequerimientoResponse, error) {
	var resp dto.RequerimientoResponse
	req := dto.ObtenerRequerimientoRequest{IDRequerimiento: id}
	if err := c.post(ctx, "/requerimientos/obtener-por-id", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CrearRequerimiento registra un nuevo pedido de materiales.
func (c *Client) CrearRequerimiento(ctx context.Context, req dto.CrearRequerimientoRequest) (*dto.RequerimientoResponse, error) {
	var resp dto.RequerimientoResponse
	if err := c.post(ctx, "/requerimientos/crear", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ObtenerTrazabilidad trae la línea de tiempo de eventos de una línea.
// Siempre se consulta fresca al abrir la vista; no se cachea entre líneas.
func (c *Client) ObtenerTrazabilidad(ctx context.Context, idDetalle string) ([]dto.EventoTrazabilidadResponse, error) {
	var resp []dto.EventoTrazabilidadResponse
	req := dto.TrazabilidadRequest{IDDetalle: idDetalle}
	if err := c.post(ctx, "/requerimientos/detalle/trazabilidad", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
