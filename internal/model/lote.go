package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote es una partida física de un producto en un almacén concreto.
// Las entregas se descuentan contra lotes; el stock nunca queda negativo
// (regla del servidor, el cliente solo acota la entrada del operador).
type Lote struct {
	ID               uuid.UUID
	Codigo           string
	ProductoID       uuid.UUID
	AlmacenID        uuid.UUID
	StockActual      decimal.Decimal
	UnidadMedida     string
	FechaIngreso     time.Time
	FechaVencimiento *time.Time
}

// DiasParaVencer devuelve los días que faltan para el vencimiento del lote
// respecto de ahora. Lotes sin fecha de vencimiento devuelven (0, false).
// Lotes vencidos devuelven un valor negativo.
func (l *Lote) DiasParaVencer(ahora time.Time) (int, bool) {
	if l.FechaVencimiento == nil {
		return 0, false
	}
	dias := int(l.FechaVencimiento.Sub(ahora).Hours() / 24)
	return dias, true
}
