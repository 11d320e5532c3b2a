package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

func nuevoReqService(t *testing.T) (RequerimientoService, *repository.Semilla, *model.Usuario) {
	t.Helper()
	semilla, err := repository.Sembrar(context.Background())
	require.NoError(t, err)
	solicitante, err := semilla.Usuarios.FindByUsername(context.Background(), "solicitante1")
	require.NoError(t, err)
	return NewRequerimientoService(semilla.Requerimientos, semilla.Catalogo), semilla, solicitante
}

func peticionValida(s *repository.Semilla) dto.CrearRequerimientoRequest {
	return dto.CrearRequerimientoRequest{
		IDMina:         s.Mina.ID.String(),
		IDAlmacen:      s.Almacen.ID.String(),
		Urgencia:       string(model.UrgenciaNormal),
		FechaRequerida: time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
		Detalles: []dto.CrearDetalleRequest{
			{IDProducto: s.Productos[2].ID.String(), Cantidad: decimal.NewFromInt(2), Comentario: "taller de mantenimiento"},
		},
	}
}

func TestCrearGeneraCodigoCorrelativo(t *testing.T) {
	svc, semilla, solicitante := nuevoReqService(t)

	resp, err := svc.Crear(context.Background(), solicitante, peticionValida(semilla))
	require.NoError(t, err)

	// La semilla ya consumió el primer correlativo del año.
	assert.Equal(t, fmt.Sprintf("REQ-%d-00002", time.Now().Year()), resp.Codigo)
	assert.Equal(t, string(model.RequerimientoGenerado), resp.Estado)
	assert.Equal(t, "Juan Quispe", resp.Solicitante)
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, string(model.DetallePendiente), resp.Detalles[0].Estado)
	assert.True(t, resp.Detalles[0].EsPerecible)
	assert.Equal(t, "balde", resp.Detalles[0].UnidadMedida)
}

func TestCrearSiembraTrazabilidadInicial(t *testing.T) {
	svc, semilla, solicitante := nuevoReqService(t)

	resp, err := svc.Crear(context.Background(), solicitante, peticionValida(semilla))
	require.NoError(t, err)

	eventos, err := svc.Trazabilidad(context.Background(), resp.Detalles[0].ID)
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, "Requerimiento generado", eventos[0].Glosa)
	assert.Equal(t, "Juan Quispe", eventos[0].Usuario)
}

func TestCrearRechazaEntradasInvalidas(t *testing.T) {
	svc, semilla, solicitante := nuevoReqService(t)
	ctx := context.Background()

	malaFecha := peticionValida(semilla)
	malaFecha.FechaRequerida = "15/09/2026"
	_, err := svc.Crear(ctx, solicitante, malaFecha)
	assert.EqualError(t, err, "fecha_requerida invalida, use AAAA-MM-DD")

	cantidadCero := peticionValida(semilla)
	cantidadCero.Detalles[0].Cantidad = decimal.Zero
	_, err = svc.Crear(ctx, solicitante, cantidadCero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debe ser mayor que cero")

	otraMina := peticionValida(semilla)
	otraMina.IDMina = "no-es-uuid"
	_, err = svc.Crear(ctx, solicitante, otraMina)
	assert.EqualError(t, err, "id_mina invalido")
}

func TestListarPorMinaSoloDevuelveLasDeEsaMina(t *testing.T) {
	svc, semilla, solicitante := nuevoReqService(t)
	ctx := context.Background()

	_, err := svc.Crear(ctx, solicitante, peticionValida(semilla))
	require.NoError(t, err)

	filas, err := svc.ListarPorMina(ctx, semilla.Mina.ID.String())
	require.NoError(t, err)
	assert.Len(t, filas, 2) // la sembrada más la recién creada

	vacias, err := svc.ListarPorMina(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Empty(t, vacias)
}

func TestObtenerPorIDDevuelveDetalleCompleto(t *testing.T) {
	svc, semilla, _ := nuevoReqService(t)

	resp, err := svc.ObtenerPorID(context.Background(), semilla.Requerimiento.ID.String())
	require.NoError(t, err)
	assert.Equal(t, semilla.Requerimiento.Codigo, resp.Codigo)
	assert.Equal(t, "Mina Esperanza", resp.Origen)
	require.Len(t, resp.Detalles, 2)
	assert.True(t, resp.Detalles[0].EsFiscalizado)

	_, err = svc.ObtenerPorID(context.Background(), "tampoco-uuid")
	assert.EqualError(t, err, "id_requerimiento invalido")
}
