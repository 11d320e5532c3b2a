package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

type fixtureAtencion struct {
	semilla *repository.Semilla
	svc     AtencionService
	actor   *model.Usuario
}

func nuevaFixture(t *testing.T) *fixtureAtencion {
	t.Helper()
	semilla, err := repository.Sembrar(context.Background())
	require.NoError(t, err)
	svc := NewAtencionService(semilla.Requerimientos, semilla.Lotes)
	actor, err := semilla.Usuarios.FindByUsername(context.Background(), "almacenero1")
	require.NoError(t, err)
	return &fixtureAtencion{semilla: semilla, svc: svc, actor: actor}
}

func (f *fixtureAtencion) recargar(t *testing.T) *model.Requerimiento {
	t.Helper()
	r, err := f.semilla.Requerimientos.FindByID(context.Background(), f.semilla.Requerimiento.ID)
	require.NoError(t, err)
	return r
}

func (f *fixtureAtencion) aprobar(t *testing.T, detalleID string) {
	t.Helper()
	err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
		IDDetalle:   detalleID,
		NuevoEstado: string(model.DetalleAprobacionLogistica),
	})
	require.NoError(t, err)
}

func TestAprobarDetallePendiente(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]

	f.aprobar(t, detalle.ID.String())

	r := f.recargar(t)
	assert.Equal(t, model.DetalleAprobacionLogistica, r.Detalles[0].Estado)
	assert.Equal(t, model.RequerimientoAprobado, r.Estado)

	eventos, err := f.semilla.Requerimientos.EventosPorDetalle(context.Background(), detalle.ID)
	require.NoError(t, err)
	require.Len(t, eventos, 2)
	assert.Equal(t, "Linea aprobada por logistica", eventos[0].Glosa)
	assert.Equal(t, f.actor.Nombre, eventos[0].Usuario)
}

func TestAprobarDosVecesFalla(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]

	f.aprobar(t, detalle.ID.String())
	err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
		IDDetalle:   detalle.ID.String(),
		NuevoEstado: string(model.DetalleAprobacionLogistica),
	})
	assert.ErrorContains(t, err, "ya no esta Pendiente")
}

func TestRechazarSinComentarioFalla(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]

	err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
		IDDetalle:         detalle.ID.String(),
		NuevoEstado:       string(model.DetalleRechazadoLogistica),
		ComentarioRechazo: "   ",
	})
	assert.ErrorContains(t, err, "comentario de rechazo es obligatorio")

	// El estado no debió moverse.
	r := f.recargar(t)
	assert.Equal(t, model.DetallePendiente, r.Detalles[0].Estado)
}

func TestRechazarConComentario(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[1]

	err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
		IDDetalle:         detalle.ID.String(),
		NuevoEstado:       string(model.DetalleRechazadoLogistica),
		ComentarioRechazo: "Sin stock en todo el periodo",
	})
	require.NoError(t, err)

	r := f.recargar(t)
	assert.Equal(t, model.DetalleRechazadoLogistica, r.Detalles[1].Estado)
	assert.Equal(t, "Sin stock en todo el periodo", r.Detalles[1].ComentarioRechazo)
	// Con una línea rechazada y otra pendiente el agregado sigue decidido.
	assert.Equal(t, model.RequerimientoAprobado, r.Estado)
}

func TestEntregaParcialDescuentaLoteYQuedaEnDespacho(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0] // 10 cajas solicitadas
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, lotes, 2)
	// FIFO: el lote más antiguo primero.
	assert.Equal(t, "L-2026-001", lotes[0].Codigo)

	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[0].ID, Cantidad: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)

	r := f.recargar(t)
	assert.Equal(t, model.DetalleDespachoIniciado, r.Detalles[0].Estado)
	assert.True(t, r.Detalles[0].CantidadAtendida.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 30, r.Detalles[0].Avance())

	// Stock del lote descontado: 5 - 3 = 2.
	despues, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, despues[0].StockActual.Equal(decimal.NewFromInt(2)))
}

func TestEntregaDivididaEntreLotesCompletaLaLinea(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, lotes, 2)

	// 5 del lote antiguo + 5 del nuevo = 10 solicitadas.
	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Observacion:     "Despacho completo en dos partidas",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[0].ID, Cantidad: decimal.NewFromInt(5)},
			{IDDetalle: detalle.ID.String(), IDLote: lotes[1].ID, Cantidad: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	r := f.recargar(t)
	assert.Equal(t, model.DetalleCompletado, r.Detalles[0].Estado)
	assert.Equal(t, 100, r.Detalles[0].Avance())

	// El primer lote quedó en cero y ya no aparece como disponible.
	despues, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, despues, 1)
	assert.True(t, despues[0].StockActual.Equal(decimal.NewFromInt(3)))
}

func TestEntregaExcedeStockDelLote(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)

	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[0].ID, Cantidad: decimal.NewFromInt(6)},
		},
	})
	assert.ErrorContains(t, err, "no tiene stock suficiente")

	// Nada se aplica: ni atendida ni stock cambian.
	r := f.recargar(t)
	assert.True(t, r.Detalles[0].CantidadAtendida.IsZero())
	despues, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, despues[0].StockActual.Equal(decimal.NewFromInt(5)))
}

func TestEntregaRepitiendoLoteValidaElStockAgregado(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, lotes, 2)

	// Dos líneas de 5 contra el mismo lote de 8: cada una cabe por
	// separado pero la suma no.
	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[1].ID, Cantidad: decimal.NewFromInt(5)},
			{IDDetalle: detalle.ID.String(), IDLote: lotes[1].ID, Cantidad: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorContains(t, err, "no tiene stock suficiente")

	r := f.recargar(t)
	assert.True(t, r.Detalles[0].CantidadAtendida.IsZero())
	assert.Equal(t, model.DetalleAprobacionLogistica, r.Detalles[0].Estado)
	despues, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, despues[1].StockActual.Equal(decimal.NewFromInt(8)))
}

func TestEntregaRepitiendoLoteDescuentaUnaSolaVez(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0]
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, lotes, 2)

	// 3 + 4 sobre el lote de 8: entra completo y el stock queda en 1.
	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[1].ID, Cantidad: decimal.NewFromInt(3)},
			{IDDetalle: detalle.ID.String(), IDLote: lotes[1].ID, Cantidad: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)

	r := f.recargar(t)
	assert.True(t, r.Detalles[0].CantidadAtendida.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, model.DetalleDespachoIniciado, r.Detalles[0].Estado)

	despues, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, despues[1].StockActual.Equal(decimal.NewFromInt(1)))
}

func TestEntregaExcedeLoSolicitado(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[1] // 50 bolsas, lote con 200
	f.aprobar(t, detalle.ID.String())

	lotes, err := f.svc.ObtenerLotes(context.Background(), dto.ObtenerLotesRequest{
		IDProducto: detalle.ProductoID.String(),
		IDAlmacen:  f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, lotes, 1)

	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[0].ID, Cantidad: decimal.NewFromInt(51)},
		},
	})
	assert.ErrorContains(t, err, "excede lo pendiente")
}

func TestEntregaContraLineaPendienteFalla(t *testing.T) {
	f := nuevaFixture(t)
	detalle := f.semilla.Requerimiento.Detalles[0] // sigue Pendiente

	lotes, err := f.semilla.Lotes.ListarDisponibles(context.Background(), detalle.ProductoID, f.semilla.Almacen.ID)
	require.NoError(t, err)

	err = f.svc.RegistrarEntrega(context.Background(), f.actor, dto.RegistrarEntregaRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
		FechaEntrega:    "2026-08-30T10:00:00Z",
		Detalles: []dto.EntregaLoteRequest{
			{IDDetalle: detalle.ID.String(), IDLote: lotes[0].ID.String(), Cantidad: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorContains(t, err, "no admite entregas")
}

func TestFinalizarCierraSoloLineasAbiertas(t *testing.T) {
	f := nuevaFixture(t)
	d0 := f.semilla.Requerimiento.Detalles[0]
	d1 := f.semilla.Requerimiento.Detalles[1]

	// Rechazar la segunda línea; la primera queda pendiente.
	err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
		IDDetalle:         d1.ID.String(),
		NuevoEstado:       string(model.DetalleRechazadoLogistica),
		ComentarioRechazo: "Producto descontinuado",
	})
	require.NoError(t, err)

	err = f.svc.Finalizar(context.Background(), f.actor, dto.FinalizarRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
	})
	require.NoError(t, err)

	r := f.recargar(t)
	assert.Equal(t, model.DetalleCerrado, r.Detalles[0].Estado)
	assert.Equal(t, model.DetalleRechazadoLogistica, r.Detalles[1].Estado)
	assert.Equal(t, model.RequerimientoAtendido, r.Estado)

	eventos, err := f.semilla.Requerimientos.EventosPorDetalle(context.Background(), d0.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cerrado por finalizacion del requerimiento", eventos[0].Glosa)

	// Un requerimiento sin líneas abiertas no se puede finalizar de nuevo.
	err = f.svc.Finalizar(context.Background(), f.actor, dto.FinalizarRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
	})
	assert.ErrorContains(t, err, "no tiene lineas abiertas")
}

func TestTodasRechazadasMarcaRequerimientoRechazado(t *testing.T) {
	f := nuevaFixture(t)
	for _, d := range f.semilla.Requerimiento.Detalles {
		err := f.svc.CambiarEstadoDetalle(context.Background(), f.actor, dto.CambiarEstadoDetalleRequest{
			IDDetalle:         d.ID.String(),
			NuevoEstado:       string(model.DetalleRechazadoLogistica),
			ComentarioRechazo: "Fuera de presupuesto",
		})
		require.NoError(t, err)
	}
	r := f.recargar(t)
	assert.Equal(t, model.RequerimientoRechazado, r.Estado)
}

func TestObtenerPendientesExcluyeRequerimientosCerrados(t *testing.T) {
	f := nuevaFixture(t)

	pendientes, err := f.svc.ObtenerPendientes(context.Background(), dto.ObtenerPendientesRequest{
		IDAlmacen: f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, f.semilla.Requerimiento.Codigo, pendientes[0].Codigo)
	assert.Equal(t, 2, pendientes[0].DetallesAbiertos)

	err = f.svc.Finalizar(context.Background(), f.actor, dto.FinalizarRequest{
		IDRequerimiento: f.semilla.Requerimiento.ID.String(),
	})
	require.NoError(t, err)

	pendientes, err = f.svc.ObtenerPendientes(context.Background(), dto.ObtenerPendientesRequest{
		IDAlmacen: f.semilla.Almacen.ID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, pendientes)
}
