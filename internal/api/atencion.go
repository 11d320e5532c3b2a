package api

import (
	"context"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// ObtenerPendientes lista los requerimientos con líneas abiertas para un
// almacén.
func (c *Client) ObtenerPendientes(ctx context.Context, idAlmacen string) ([]dto.PendienteResponse, error) {
	var resp []dto.PendienteResponse
	req := dto.ObtenerPendientesRequest{IDAlmacen: idAlmacen}
	if err := c.post(ctx, "/requerimientos/atencion/obtener-pendientes", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CambiarEstadoDetalle aprueba o rechaza una línea. El servidor decide si la
// transición es legal; el cliente no valida contra su copia local.
func (c *Client) CambiarEstadoDetalle(ctx context.Context, req dto.CambiarEstadoDetalleRequest) error {
	return c.post(ctx, "/requerimientos/atencion/cambiar-estado-detalle", req, nil)
}

// ObtenerLotesDisponibles trae los lotes con stock de un producto en un
// almacén.
func (c *Client) ObtenerLotesDisponibles(ctx context.Context, idProducto, idAlmacen string) ([]dto.LoteResponse, error) {
	var resp []dto.LoteResponse
	req := dto.ObtenerLotesRequest{IDProducto: idProducto, IDAlmacen: idAlmacen}
	if err := c.post(ctx, "/requerimientos/atencion/obtener-lotes-disponibles", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RegistrarEntrega envía una entrega compuesta por pares (lote, cantidad).
func (c *Client) RegistrarEntrega(ctx context.Context, req dto.RegistrarEntregaRequest) error {
	return c.post(ctx, "/requerimientos/atencion/registrar-entrega", req, nil)
}

// Finalizar fuerza el cierre del requerimiento: las líneas abiertas pasan a
// Cerrado.
func (c *Client) Finalizar(ctx context.Context, idRequerimiento string) error {
	req := dto.FinalizarRequest{IDRequerimiento: idRequerimiento}
	return c.post(ctx, "/requerimientos/atencion/finalizar", req, nil)
}
