package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ─────────────────────────────────────────────────────────────

type ObtenerRequerimientoRequest struct {
	IDRequerimiento string `json:"id_requerimiento" validate:"required,uuid"`
}

type TrazabilidadRequest struct {
	IDDetalle string `json:"id_requerimiento_almacen_detalle" validate:"required,uuid"`
}

// CrearRequerimientoRequest registra un nuevo pedido de materiales.
type CrearRequerimientoRequest struct {
	IDMina         string                `json:"id_mina" validate:"required,uuid"`
	IDAlmacen      string                `json:"id_almacen" validate:"required,uuid"`
	Urgencia       string                `json:"urgencia" validate:"required,oneof=Normal Urgente Emergencia"`
	FechaRequerida string                `json:"fecha_requerida" validate:"required"`
	Detalles       []CrearDetalleRequest `json:"detalles" validate:"required,min=1,dive"`
}

type CrearDetalleRequest struct {
	IDProducto string          `json:"id_producto" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required"`
	Comentario string          `json:"comentario"`
}

// ─── Response DTOs ────────────────────────────────────────────────────────────

type RequerimientoResponse struct {
	ID             string            `json:"id"`
	Codigo         string            `json:"codigo"`
	Solicitante    string            `json:"solicitante"`
	Origen         string            `json:"origen"`
	Almacen        string            `json:"almacen"`
	IDAlmacen      string            `json:"id_almacen"`
	Urgencia       string            `json:"urgencia"`
	FechaRequerida string            `json:"fecha_requerida"`
	Estado         string            `json:"estado"`
	Avance         int               `json:"avance"`
	CreatedAt      string            `json:"created_at"`
	Detalles       []DetalleResponse `json:"detalles"`
}

type DetalleResponse struct {
	ID                 string          `json:"id"`
	IDProducto         string          `json:"id_producto"`
	Producto           string          `json:"producto"`
	CantidadSolicitada decimal.Decimal `json:"cantidad_solicitada"`
	CantidadAtendida   decimal.Decimal `json:"cantidad_atendida"`
	UnidadMedida       string          `json:"unidad_medida"`
	EsFiscalizado      bool            `json:"es_fiscalizado"`
	EsPerecible        bool            `json:"es_perecible"`
	Comentario         string          `json:"comentario,omitempty"`
	ComentarioRechazo  string          `json:"comentario_rechazo,omitempty"`
	Estado             string          `json:"estado"`
	Avance             int             `json:"avance"`
}

type EventoTrazabilidadResponse struct {
	ID      string `json:"id"`
	Glosa   string `json:"glosa"`
	Estado  string `json:"estado"`
	Usuario string `json:"usuario"`
	Fecha   string `json:"fecha"`
}
