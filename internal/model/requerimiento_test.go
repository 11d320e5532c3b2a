package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAvance(t *testing.T) {
	casos := []struct {
		nombre     string
		solicitada string
		atendida   string
		esperado   int
	}{
		{"sin atencion", "10", "0", 0},
		{"parcial", "10", "3", 30},
		{"completo", "10", "10", 100},
		{"redondeo", "3", "1", 33},
		{"sobre-entrega queda acotada a 100", "10", "12", 100},
		{"fraccionario", "7.5", "2.5", 33},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			d := RequerimientoDetalle{
				CantidadSolicitada: decimal.RequireFromString(c.solicitada),
				CantidadAtendida:   decimal.RequireFromString(c.atendida),
			}
			assert.Equal(t, c.esperado, d.Avance())
		})
	}
}

// Regresión: cantidad solicitada en cero no debe dividir por cero — se trata
// como 1, comportamiento heredado y documentado.
func TestAvanceSolicitadaCero(t *testing.T) {
	d := RequerimientoDetalle{
		CantidadSolicitada: decimal.Zero,
		CantidadAtendida:   decimal.Zero,
	}
	assert.NotPanics(t, func() { d.Avance() })
	assert.Equal(t, 0, d.Avance())

	d.CantidadAtendida = decimal.NewFromInt(5)
	assert.Equal(t, 100, d.Avance())
}

func TestEstadoDetalleHelpers(t *testing.T) {
	assert.True(t, DetallePendiente.PermiteAprobacion())
	assert.False(t, DetalleAprobacionLogistica.PermiteAprobacion())

	assert.True(t, DetalleAprobacionLogistica.PermiteEntrega())
	assert.True(t, DetalleDespachoIniciado.PermiteEntrega())
	assert.False(t, DetallePendiente.PermiteEntrega())
	assert.False(t, DetalleCompletado.PermiteEntrega())

	for _, e := range []EstadoDetalle{DetalleCompletado, DetalleRechazadoLogistica, DetalleCerrado} {
		assert.True(t, e.EsTerminal(), string(e))
	}
	for _, e := range []EstadoDetalle{DetallePendiente, DetalleAprobacionLogistica, DetalleDespachoIniciado} {
		assert.False(t, e.EsTerminal(), string(e))
	}

	assert.True(t, DetalleDespachoIniciado.EsValido())
	assert.False(t, EstadoDetalle("EnRevision").EsValido())
}

func TestAvanceGlobal(t *testing.T) {
	r := Requerimiento{
		Detalles: []RequerimientoDetalle{
			{CantidadSolicitada: decimal.NewFromInt(10), CantidadAtendida: decimal.NewFromInt(10)},
			{CantidadSolicitada: decimal.NewFromInt(10), CantidadAtendida: decimal.NewFromInt(2)},
		},
	}
	assert.Equal(t, 60, r.AvanceGlobal())

	vacio := Requerimiento{}
	assert.Equal(t, 0, vacio.AvanceGlobal())
}

func TestDiasParaVencer(t *testing.T) {
	ahora := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sinVencimiento := Lote{}
	_, ok := sinVencimiento.DiasParaVencer(ahora)
	assert.False(t, ok)

	venc := ahora.AddDate(0, 0, 15)
	l := Lote{FechaVencimiento: &venc}
	dias, ok := l.DiasParaVencer(ahora)
	assert.True(t, ok)
	assert.Equal(t, 15, dias)

	vencido := ahora.AddDate(0, 0, -3)
	l.FechaVencimiento = &vencido
	dias, _ = l.DiasParaVencer(ahora)
	assert.Equal(t, -3, dias)
}
