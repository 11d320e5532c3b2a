package dto

import "github.com/shopspring/decimal"

// DTOs del flujo de atención de almacén: aprobación/rechazo por línea,
// consulta de lotes disponibles, registro de entregas y cierre forzado.

// ─── Request DTOs ─────────────────────────────────────────────────────────────

type ObtenerPendientesRequest struct {
	IDAlmacen string `json:"id_almacen" validate:"required,uuid"`
}

// CambiarEstadoDetalleRequest aprueba o rechaza una línea pendiente.
// El comentario de rechazo es obligatorio cuando nuevo_estado es
// RechazadoLogistica; la regla se valida en el servicio porque depende del
// valor de otro campo.
type CambiarEstadoDetalleRequest struct {
	IDDetalle         string `json:"id_requerimiento_almacen_detalle" validate:"required,uuid"`
	NuevoEstado       string `json:"nuevo_estado" validate:"required,oneof=AprobacionLogistica RechazadoLogistica"`
	ComentarioRechazo string `json:"comentario_rechazo"`
}

type ObtenerLotesRequest struct {
	IDProducto string `json:"id_producto" validate:"required,uuid"`
	IDAlmacen  string `json:"id_almacen" validate:"required,uuid"`
}

type RegistrarEntregaRequest struct {
	IDRequerimiento string               `json:"id_requerimiento" validate:"required,uuid"`
	FechaEntrega    string               `json:"fecha_entrega" validate:"required"`
	Observacion     string               `json:"observacion"`
	Detalles        []EntregaLoteRequest `json:"detalles" validate:"required,min=1,dive"`
}

type EntregaLoteRequest struct {
	IDDetalle string          `json:"id_requerimiento_almacen_detalle" validate:"required,uuid"`
	IDLote    string          `json:"id_lote" validate:"required,uuid"`
	Cantidad  decimal.Decimal `json:"cantidad" validate:"required"`
}

type FinalizarRequest struct {
	IDRequerimiento string `json:"id_requerimiento" validate:"required,uuid"`
}

// ─── Response DTOs ────────────────────────────────────────────────────────────

// PendienteResponse es la fila del listado de requerimientos con líneas
// abiertas para un almacén.
type PendienteResponse struct {
	ID               string `json:"id"`
	Codigo           string `json:"codigo"`
	Solicitante      string `json:"solicitante"`
	Origen           string `json:"origen"`
	Urgencia         string `json:"urgencia"`
	FechaRequerida   string `json:"fecha_requerida"`
	Avance           int    `json:"avance"`
	DetallesAbiertos int    `json:"detalles_abiertos"`
}

type LoteResponse struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	StockActual      decimal.Decimal `json:"stock_actual"`
	UnidadMedida     string          `json:"unidad_medida"`
	FechaIngreso     string          `json:"fecha_ingreso"`
	FechaVencimiento *string         `json:"fecha_vencimiento,omitempty"`
	DiasParaVencer   *int            `json:"dias_para_vencer,omitempty"`
}
