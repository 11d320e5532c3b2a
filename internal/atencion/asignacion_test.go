package atencion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsignarAcotaAlStockDelLote(t *testing.T) {
	asig := NuevaAsignacion("req-1", "det-42", lotesDePrueba())

	// Más que el stock: queda en el máximo del lote.
	require.NoError(t, asig.Asignar("lote-1", decimal.NewFromInt(10)))
	assert.True(t, asig.Cantidad("lote-1").Equal(decimal.NewFromInt(5)))

	// Negativo: queda en cero.
	require.NoError(t, asig.Asignar("lote-1", decimal.NewFromInt(-2)))
	assert.True(t, asig.Cantidad("lote-1").IsZero())

	// Lote ajeno: error.
	err := asig.Asignar("lote-999", decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestSaldoProyectado(t *testing.T) {
	asig := NuevaAsignacion("req-1", "det-42", lotesDePrueba())
	require.NoError(t, asig.Asignar("lote-2", decimal.NewFromInt(3)))

	assert.True(t, asig.SaldoProyectado("lote-2").Equal(decimal.NewFromInt(5)))
	assert.True(t, asig.SaldoProyectado("lote-1").Equal(decimal.NewFromInt(5)), "lote sin tocar proyecta su stock completo")
}

func TestLineasOmiteCantidadesCero(t *testing.T) {
	asig := NuevaAsignacion("req-1", "det-42", lotesDePrueba())
	require.NoError(t, asig.Asignar("lote-1", decimal.NewFromInt(2)))
	require.NoError(t, asig.Asignar("lote-2", decimal.Zero))

	lineas := asig.Lineas()
	require.Len(t, lineas, 1)
	assert.Equal(t, "lote-1", lineas[0].IDLote)
	assert.Equal(t, "det-42", lineas[0].IDDetalle)
}

func TestSolicitudArmaElRequestCompuesto(t *testing.T) {
	asig := NuevaAsignacion("req-1", "det-42", lotesDePrueba())
	require.NoError(t, asig.Asignar("lote-1", decimal.NewFromInt(3)))
	require.NoError(t, asig.Asignar("lote-2", decimal.NewFromInt(4)))

	ahora := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	req := asig.Solicitud("despacho turno noche", ahora)

	assert.Equal(t, "req-1", req.IDRequerimiento)
	assert.Equal(t, "2026-03-15T10:30:00Z", req.FechaEntrega)
	assert.Equal(t, "despacho turno noche", req.Observacion)
	require.Len(t, req.Detalles, 2)
	// El orden respeta el listado del servidor.
	assert.Equal(t, "lote-1", req.Detalles[0].IDLote)
	assert.Equal(t, "lote-2", req.Detalles[1].IDLote)
}
