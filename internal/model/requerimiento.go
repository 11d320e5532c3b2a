package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Requerimiento es una solicitud de materiales desde un punto de origen
// (mina o labor) hacia un almacén destino.
type Requerimiento struct {
	ID             uuid.UUID
	Codigo         string // correlativo legible, ej. "REQ-2026-00042"
	SolicitanteID  uuid.UUID
	Solicitante    string
	MinaID         uuid.UUID
	OrigenNombre   string
	AlmacenID      uuid.UUID
	AlmacenNombre  string
	Urgencia       Urgencia
	FechaRequerida time.Time
	Estado         EstadoRequerimiento
	CreatedAt      time.Time

	Detalles []RequerimientoDetalle
}

// AvanceGlobal es el porcentaje agregado de atención del requerimiento,
// promedio simple sobre sus detalles. Un requerimiento sin detalles reporta 0.
func (r *Requerimiento) AvanceGlobal() int {
	if len(r.Detalles) == 0 {
		return 0
	}
	total := 0
	for i := range r.Detalles {
		total += r.Detalles[i].Avance()
	}
	return total / len(r.Detalles)
}

// DetallesAbiertos devuelve las líneas que todavía no alcanzaron un estado
// terminal. Es lo que el cierre forzado marca como Cerrado.
func (r *Requerimiento) DetallesAbiertos() []RequerimientoDetalle {
	var abiertos []RequerimientoDetalle
	for _, d := range r.Detalles {
		if !d.Estado.EsTerminal() {
			abiertos = append(abiertos, d)
		}
	}
	return abiertos
}

// RequerimientoDetalle es una línea de producto dentro de un requerimiento.
type RequerimientoDetalle struct {
	ID                 uuid.UUID
	RequerimientoID    uuid.UUID
	ProductoID         uuid.UUID
	ProductoNombre     string
	CantidadSolicitada decimal.Decimal
	CantidadAtendida   decimal.Decimal
	UnidadMedida       string
	EsFiscalizado      bool // indicador de render, ej. explosivos bajo control SUCAMEC
	EsPerecible        bool
	Comentario         string
	ComentarioRechazo  string
	Estado             EstadoDetalle
}

// Avance es el porcentaje de atención de la línea, acotado a [0, 100].
// Una cantidad solicitada de cero se trata como 1 para no dividir por cero;
// comportamiento heredado del sistema original y cubierto por test de
// regresión.
func (d *RequerimientoDetalle) Avance() int {
	solicitada := d.CantidadSolicitada
	if solicitada.IsZero() {
		solicitada = decimal.NewFromInt(1)
	}
	pct := d.CantidadAtendida.
		Div(solicitada).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	avance := int(pct.IntPart())
	if avance > 100 {
		return 100
	}
	if avance < 0 {
		return 0
	}
	return avance
}
