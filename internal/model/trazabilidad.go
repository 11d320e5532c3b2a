package model

import (
	"time"

	"github.com/google/uuid"
)

// EventoTrazabilidad es un registro inmutable de un cambio de estado de una
// línea de requerimiento. El servidor lo agrega en cada transición; el
// cliente solo lo lee y lo ordena del más reciente al más antiguo.
type EventoTrazabilidad struct {
	ID        uuid.UUID
	DetalleID uuid.UUID
	Glosa     string
	Estado    EstadoDetalle
	Usuario   string
	Fecha     time.Time
}
