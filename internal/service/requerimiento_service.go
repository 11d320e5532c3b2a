package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

type RequerimientoService interface {
	Crear(ctx context.Context, solicitante *model.Usuario, req dto.CrearRequerimientoRequest) (*dto.RequerimientoResponse, error)
	ObtenerPorID(ctx context.Context, id string) (*dto.RequerimientoResponse, error)
	ListarPorMina(ctx context.Context, idMina string) ([]dto.RequerimientoResponse, error)
	Trazabilidad(ctx context.Context, idDetalle string) ([]dto.EventoTrazabilidadResponse, error)
}

type requerimientoService struct {
	repo     repository.RequerimientoRepository
	catalogo repository.CatalogoRepository
}

func NewRequerimientoService(repo repository.RequerimientoRepository, catalogo repository.CatalogoRepository) RequerimientoService {
	return &requerimientoService{repo: repo, catalogo: catalogo}
}

func (s *requerimientoService) Crear(ctx context.Context, solicitante *model.Usuario, req dto.CrearRequerimientoRequest) (*dto.RequerimientoResponse, error) {
	minaID, err := uuid.Parse(req.IDMina)
	if err != nil {
		return nil, errors.New("id_mina invalido")
	}
	almacenID, err := uuid.Parse(req.IDAlmacen)
	if err != nil {
		return nil, errors.New("id_almacen invalido")
	}
	mina, err := s.catalogo.FindMina(ctx, minaID)
	if err != nil {
		return nil, errors.New("mina no encontrada")
	}
	almacen, err := s.catalogo.FindAlmacen(ctx, almacenID)
	if err != nil {
		return nil, errors.New("almacen no encontrado")
	}
	fechaRequerida, err := time.Parse("2006-01-02", req.FechaRequerida)
	if err != nil {
		return nil, errors.New("fecha_requerida invalida, use AAAA-MM-DD")
	}

	nuevo := model.Requerimiento{
		Codigo:         s.repo.SiguienteCodigo(ctx),
		SolicitanteID:  solicitante.ID,
		Solicitante:    solicitante.Nombre,
		MinaID:         mina.ID,
		OrigenNombre:   mina.Nombre,
		AlmacenID:      almacen.ID,
		AlmacenNombre:  almacen.Nombre,
		Urgencia:       model.Urgencia(req.Urgencia),
		FechaRequerida: fechaRequerida,
		Estado:         model.RequerimientoGenerado,
		CreatedAt:      time.Now(),
	}
	for _, d := range req.Detalles {
		productoID, err := uuid.Parse(d.IDProducto)
		if err != nil {
			return nil, errors.New("id_producto invalido")
		}
		producto, err := s.catalogo.FindProducto(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", d.IDProducto)
		}
		// El stub exige cantidades positivas en la creación. El backend de
		// producción no lo garantiza, por eso el cliente conserva el
		// tratamiento de solicitada = 0 al renderizar avance.
		if !d.Cantidad.IsPositive() {
			return nil, fmt.Errorf("la cantidad de %s debe ser mayor que cero", producto.Nombre)
		}
		nuevo.Detalles = append(nuevo.Detalles, model.RequerimientoDetalle{
			ID:                 uuid.New(),
			ProductoID:         producto.ID,
			ProductoNombre:     producto.Nombre,
			CantidadSolicitada: d.Cantidad,
			UnidadMedida:       producto.UnidadMedida,
			EsFiscalizado:      producto.EsFiscalizado,
			EsPerecible:        producto.EsPerecible,
			Comentario:         d.Comentario,
			Estado:             model.DetallePendiente,
		})
	}

	if err := s.repo.Create(ctx, &nuevo); err != nil {
		return nil, err
	}
	for _, d := range nuevo.Detalles {
		evento := model.EventoTrazabilidad{
			DetalleID: d.ID,
			Glosa:     "Requerimiento generado",
			Estado:    model.DetallePendiente,
			Usuario:   solicitante.Nombre,
			Fecha:     nuevo.CreatedAt,
		}
		if err := s.repo.AgregarEvento(ctx, &evento); err != nil {
			return nil, err
		}
	}
	resp := armarRequerimientoResponse(&nuevo)
	return &resp, nil
}

func (s *requerimientoService) ObtenerPorID(ctx context.Context, id string) (*dto.RequerimientoResponse, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("id_requerimiento invalido")
	}
	req, err := s.repo.FindByID(ctx, reqID)
	if err != nil {
		return nil, errors.New("requerimiento no encontrado")
	}
	resp := armarRequerimientoResponse(req)
	return &resp, nil
}

func (s *requerimientoService) ListarPorMina(ctx context.Context, idMina string) ([]dto.RequerimientoResponse, error) {
	minaID, err := uuid.Parse(idMina)
	if err != nil {
		return nil, errors.New("id_mina invalido")
	}
	reqs, err := s.repo.ListByMina(ctx, minaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequerimientoResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, armarRequerimientoResponse(&reqs[i]))
	}
	return out, nil
}

func (s *requerimientoService) Trazabilidad(ctx context.Context, idDetalle string) ([]dto.EventoTrazabilidadResponse, error) {
	detalleID, err := uuid.Parse(idDetalle)
	if err != nil {
		return nil, errors.New("id de detalle invalido")
	}
	if _, err := s.repo.FindByDetalle(ctx, detalleID); err != nil {
		return nil, errors.New("detalle no encontrado")
	}
	eventos, err := s.repo.EventosPorDetalle(ctx, detalleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventoTrazabilidadResponse, 0, len(eventos))
	for _, e := range eventos {
		out = append(out, dto.EventoTrazabilidadResponse{
			ID:      e.ID.String(),
			Glosa:   e.Glosa,
			Estado:  string(e.Estado),
			Usuario: e.Usuario,
			Fecha:   e.Fecha.Format(time.RFC3339),
		})
	}
	return out, nil
}

// armarRequerimientoResponse mapea el modelo al DTO de respuesta.
func armarRequerimientoResponse(r *model.Requerimiento) dto.RequerimientoResponse {
	resp := dto.RequerimientoResponse{
		ID:             r.ID.String(),
		Codigo:         r.Codigo,
		Solicitante:    r.Solicitante,
		Origen:         r.OrigenNombre,
		Almacen:        r.AlmacenNombre,
		IDAlmacen:      r.AlmacenID.String(),
		Urgencia:       string(r.Urgencia),
		FechaRequerida: r.FechaRequerida.Format("2006-01-02"),
		Estado:         string(r.Estado),
		Avance:         r.AvanceGlobal(),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	for i := range r.Detalles {
		d := &r.Detalles[i]
		resp.Detalles = append(resp.Detalles, dto.DetalleResponse{
			ID:                 d.ID.String(),
			IDProducto:         d.ProductoID.String(),
			Producto:           d.ProductoNombre,
			CantidadSolicitada: d.CantidadSolicitada,
			CantidadAtendida:   d.CantidadAtendida,
			UnidadMedida:       d.UnidadMedida,
			EsFiscalizado:      d.EsFiscalizado,
			EsPerecible:        d.EsPerecible,
			Comentario:         d.Comentario,
			ComentarioRechazo:  d.ComentarioRechazo,
			Estado:             string(d.Estado),
			Avance:             d.Avance(),
		})
	}
	return resp
}
