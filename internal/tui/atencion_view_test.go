package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/break-dev/BlackSilver-sub000/internal/atencion"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

// clienteFalso implementa Cliente contando cada llamada de red. Los tests de
// vista verifican sobre los contadores que cancelar o deshabilitar una acción
// de verdad no emite tráfico.
type clienteFalso struct {
	detalle    *dto.RequerimientoResponse
	lotes      []dto.LoteResponse
	eventos    []dto.EventoTrazabilidadResponse
	pendientes []dto.PendienteResponse

	obtenciones int
	cambios     []dto.CambiarEstadoDetalleRequest
	entregas    []dto.RegistrarEntregaRequest
	finalizados []string
}

func (c *clienteFalso) ObtenerRequerimiento(_ context.Context, _ string) (*dto.RequerimientoResponse, error) {
	c.obtenciones++
	copia := *c.detalle
	return &copia, nil
}

func (c *clienteFalso) CambiarEstadoDetalle(_ context.Context, req dto.CambiarEstadoDetalleRequest) error {
	c.cambios = append(c.cambios, req)
	return nil
}

func (c *clienteFalso) RegistrarEntrega(_ context.Context, req dto.RegistrarEntregaRequest) error {
	c.entregas = append(c.entregas, req)
	return nil
}

func (c *clienteFalso) Finalizar(_ context.Context, id string) error {
	c.finalizados = append(c.finalizados, id)
	return nil
}

func (c *clienteFalso) ObtenerLotesDisponibles(_ context.Context, _, _ string) ([]dto.LoteResponse, error) {
	return c.lotes, nil
}

func (c *clienteFalso) ObtenerTrazabilidad(_ context.Context, _ string) ([]dto.EventoTrazabilidadResponse, error) {
	return c.eventos, nil
}

func (c *clienteFalso) Login(_ context.Context, _ dto.LoginRequest) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{}, nil
}

func (c *clienteFalso) ObtenerMenu(_ context.Context) ([]dto.MenuItem, error) { return nil, nil }

func (c *clienteFalso) ObtenerPendientes(_ context.Context, _ string) ([]dto.PendienteResponse, error) {
	return c.pendientes, nil
}

func (c *clienteFalso) ListarRequerimientos(_ context.Context, _ string) ([]dto.RequerimientoResponse, error) {
	return nil, nil
}

func detalleDePrueba() *dto.RequerimientoResponse {
	return &dto.RequerimientoResponse{
		ID:        "req-1",
		Codigo:    "REQ-2026-00001",
		Origen:    "Mina Esperanza",
		IDAlmacen: "alm-1",
		Estado:    "Generado",
		Detalles: []dto.DetalleResponse{
			{
				ID:                 "det-1",
				IDProducto:         "prod-1",
				Producto:           "Dinamita 65%",
				CantidadSolicitada: decimal.NewFromInt(10),
				UnidadMedida:       "caja",
				Estado:             string(model.DetallePendiente),
			},
			{
				ID:                 "det-2",
				IDProducto:         "prod-2",
				Producto:           "Cemento Portland",
				CantidadSolicitada: decimal.NewFromInt(50),
				UnidadMedida:       "bolsa",
				Estado:             string(model.DetalleAprobacionLogistica),
			},
		},
	}
}

func vistaDePrueba(t *testing.T, falso *clienteFalso) *vistaAtencion {
	t.Helper()
	app := &App{
		cliente: falso,
		orq:     atencion.NuevoOrquestador(falso),
		logger:  zerolog.Nop(),
	}
	require.NoError(t, app.orq.CargarDetalle(context.Background(), "req-1"))
	v := nuevaVistaAtencion(app, "alm-1")
	v.modo = modoDetalle
	falso.obtenciones = 0 // la carga inicial no cuenta para los tests
	return v
}

func tecla(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCancelarCierreNoEmiteLlamadas(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)

	cmd := v.update(tecla("f"))
	assert.Nil(t, cmd)
	assert.Equal(t, modoCierre, v.modo)

	// Cancelar con "n" vuelve al detalle sin ninguna llamada de red.
	cmd = v.update(tecla("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, modoDetalle, v.modo)

	// Lo mismo con esc.
	v.update(tecla("f"))
	cmd = v.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, modoDetalle, v.modo)

	assert.Zero(t, falso.obtenciones)
	assert.Empty(t, falso.finalizados)
	assert.Empty(t, falso.cambios)
	assert.Empty(t, falso.entregas)
}

func TestConfirmarCierreFinaliza(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)

	v.update(tecla("f"))
	cmd := v.update(tecla("s"))
	require.NotNil(t, cmd)
	assert.True(t, v.cargando)

	msg := cmd()
	v.update(msg)

	require.Len(t, falso.finalizados, 1)
	assert.Equal(t, "req-1", falso.finalizados[0])
	assert.Equal(t, 1, falso.obtenciones) // exactamente una recarga
	assert.False(t, v.cargando)
	assert.Equal(t, modoDetalle, v.modo)
}

func TestRechazoEnBlancoNoEmiteComando(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)

	v.update(tecla("x"))
	require.Equal(t, modoRechazo, v.modo)

	// Enter con el comentario en blanco: la confirmación está deshabilitada.
	cmd := v.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, modoRechazo, v.modo)
	assert.NotEmpty(t, v.errMsg)
	assert.Empty(t, falso.cambios)

	// Tampoco con puros espacios.
	v.rechazo.SetValue("   ")
	cmd = v.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, falso.cambios)
}

func TestRechazoConComentarioEmiteUnaLlamada(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)

	v.update(tecla("x"))
	v.rechazo.SetValue("Sin stock en el periodo")
	cmd := v.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	v.update(cmd())

	require.Len(t, falso.cambios, 1)
	assert.Equal(t, "det-1", falso.cambios[0].IDDetalle)
	assert.Equal(t, string(model.DetalleRechazadoLogistica), falso.cambios[0].NuevoEstado)
	assert.Equal(t, "Sin stock en el periodo", falso.cambios[0].ComentarioRechazo)
	assert.Equal(t, 1, falso.obtenciones)
}

func TestAprobarSoloLineasPendientes(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)

	// La segunda línea ya está aprobada: "a" no emite nada.
	v.seleccionLinea = 1
	cmd := v.update(tecla("a"))
	assert.Nil(t, cmd)
	assert.Empty(t, falso.cambios)

	// La primera sí está pendiente.
	v.seleccionLinea = 0
	cmd = v.update(tecla("a"))
	require.NotNil(t, cmd)
	v.update(cmd())
	require.Len(t, falso.cambios, 1)
	assert.Equal(t, string(model.DetalleAprobacionLogistica), falso.cambios[0].NuevoEstado)
}

func TestAccionesDeshabilitadasMientrasCarga(t *testing.T) {
	falso := &clienteFalso{detalle: detalleDePrueba()}
	v := vistaDePrueba(t, falso)
	v.cargando = true

	for _, k := range []string{"a", "x", "e", "t", "f"} {
		assert.Nil(t, v.update(tecla(k)), "tecla %q con operacion en vuelo", k)
	}
	assert.Empty(t, falso.cambios)
	assert.Zero(t, falso.obtenciones)
}

func TestEntregaEnCeroNoSeEnvia(t *testing.T) {
	falso := &clienteFalso{
		detalle: detalleDePrueba(),
		lotes: []dto.LoteResponse{
			{ID: "lote-1", Codigo: "L-001", StockActual: decimal.NewFromInt(5), UnidadMedida: "caja"},
		},
	}
	v := vistaDePrueba(t, falso)

	// Abrir la entrega sobre la línea aprobada.
	v.seleccionLinea = 1
	cmd := v.update(tecla("e"))
	require.NotNil(t, cmd)
	v.update(cmd())
	require.Equal(t, modoEntrega, v.modo)
	require.NotNil(t, v.entrega)

	// Con el total en cero el envío está deshabilitado.
	cmd = v.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, v.errMsg)
	assert.Empty(t, falso.entregas)
}

func TestEntregaConCantidadSeEnvia(t *testing.T) {
	falso := &clienteFalso{
		detalle: detalleDePrueba(),
		lotes: []dto.LoteResponse{
			{ID: "lote-1", Codigo: "L-001", StockActual: decimal.NewFromInt(5), UnidadMedida: "caja"},
			{ID: "lote-2", Codigo: "L-014", StockActual: decimal.NewFromInt(8), UnidadMedida: "caja"},
		},
	}
	v := vistaDePrueba(t, falso)

	v.seleccionLinea = 1
	cmd := v.update(tecla("e"))
	require.NotNil(t, cmd)
	v.update(cmd())
	require.NotNil(t, v.entrega)

	require.NoError(t, v.entrega.asig.Asignar("lote-1", decimal.NewFromInt(3)))

	cmd = v.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	v.update(cmd())

	require.Len(t, falso.entregas, 1)
	require.Len(t, falso.entregas[0].Detalles, 1)
	assert.Equal(t, "lote-1", falso.entregas[0].Detalles[0].IDLote)
	assert.True(t, falso.entregas[0].Detalles[0].Cantidad.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 1, falso.obtenciones)
	assert.Equal(t, modoDetalle, v.modo)
	assert.Nil(t, v.entrega)
}

func TestSaldoProyectadoSeActualizaAlTipear(t *testing.T) {
	lotes := []dto.LoteResponse{
		{ID: "lote-1", Codigo: "L-001", StockActual: decimal.NewFromInt(5), UnidadMedida: "caja"},
	}
	e := nuevaVistaEntrega("req-1", dto.DetalleResponse{
		ID:                 "det-2",
		Producto:           "Cemento Portland",
		CantidadSolicitada: decimal.NewFromInt(50),
		UnidadMedida:       "bolsa",
	}, lotes)

	e.cantidad.SetValue("3")
	e.aplicarCantidad()
	assert.True(t, e.asig.SaldoProyectado("lote-1").Equal(decimal.NewFromInt(2)))

	// Más que el stock: la asignación acota al máximo del lote.
	e.cantidad.SetValue("99")
	e.aplicarCantidad()
	assert.True(t, e.asig.Cantidad("lote-1").Equal(decimal.NewFromInt(5)))
	assert.True(t, e.asig.SaldoProyectado("lote-1").IsZero())
}

func TestRenderEntregaMuestraEnvioDeshabilitado(t *testing.T) {
	e := nuevaVistaEntrega("req-1", dto.DetalleResponse{
		ID:                 "det-2",
		Producto:           "Cemento Portland",
		CantidadSolicitada: decimal.NewFromInt(50),
	}, []dto.LoteResponse{
		{ID: "lote-1", Codigo: "L-001", StockActual: decimal.NewFromInt(5)},
	})

	assert.Contains(t, e.render(), "deshabilitado")

	require.NoError(t, e.asig.Asignar("lote-1", decimal.NewFromInt(1)))
	assert.NotContains(t, e.render(), "deshabilitado")
}
