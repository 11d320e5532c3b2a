package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

type RequerimientoRepository interface {
	Create(ctx context.Context, r *model.Requerimiento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Requerimiento, error)
	// FindByDetalle localiza el requerimiento dueño de una línea.
	FindByDetalle(ctx context.Context, detalleID uuid.UUID) (*model.Requerimiento, error)
	// Save reemplaza el requerimiento completo (cabecera + detalles).
	Save(ctx context.Context, r *model.Requerimiento) error
	ListByMina(ctx context.Context, minaID uuid.UUID) ([]model.Requerimiento, error)
	// ListConAbiertosPorAlmacen devuelve los requerimientos del almacén que
	// todavía tienen alguna línea sin estado terminal.
	ListConAbiertosPorAlmacen(ctx context.Context, almacenID uuid.UUID) ([]model.Requerimiento, error)
	SiguienteCodigo(ctx context.Context) string

	AgregarEvento(ctx context.Context, e *model.EventoTrazabilidad) error
	EventosPorDetalle(ctx context.Context, detalleID uuid.UUID) ([]model.EventoTrazabilidad, error)
}

type requerimientoRepoMemoria struct {
	mu          sync.RWMutex
	porID       map[uuid.UUID]model.Requerimiento
	eventos     map[uuid.UUID][]model.EventoTrazabilidad // por detalle
	correlativo int
}

func NewRequerimientoRepository() RequerimientoRepository {
	return &requerimientoRepoMemoria{
		porID:   make(map[uuid.UUID]model.Requerimiento),
		eventos: make(map[uuid.UUID][]model.EventoTrazabilidad),
	}
}

func (r *requerimientoRepoMemoria) Create(_ context.Context, req *model.Requerimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	for i := range req.Detalles {
		if req.Detalles[i].ID == uuid.Nil {
			req.Detalles[i].ID = uuid.New()
		}
		req.Detalles[i].RequerimientoID = req.ID
	}
	r.porID[req.ID] = copiar(req)
	return nil
}

func (r *requerimientoRepoMemoria) FindByID(_ context.Context, id uuid.UUID) (*model.Requerimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.porID[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := copiar(&req)
	return &copia, nil
}

func (r *requerimientoRepoMemoria) FindByDetalle(_ context.Context, detalleID uuid.UUID) (*model.Requerimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.porID {
		for _, d := range req.Detalles {
			if d.ID == detalleID {
				copia := copiar(&req)
				return &copia, nil
			}
		}
	}
	return nil, ErrNoEncontrado
}

func (r *requerimientoRepoMemoria) Save(_ context.Context, req *model.Requerimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.porID[req.ID]; !ok {
		return ErrNoEncontrado
	}
	r.porID[req.ID] = copiar(req)
	return nil
}

func (r *requerimientoRepoMemoria) ListByMina(_ context.Context, minaID uuid.UUID) ([]model.Requerimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Requerimiento
	for _, req := range r.porID {
		if req.MinaID == minaID {
			out = append(out, copiar(&req))
		}
	}
	ordenarPorCreacion(out)
	return out, nil
}

func (r *requerimientoRepoMemoria) ListConAbiertosPorAlmacen(_ context.Context, almacenID uuid.UUID) ([]model.Requerimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Requerimiento
	for _, req := range r.porID {
		if req.AlmacenID != almacenID {
			continue
		}
		if len(req.DetallesAbiertos()) == 0 {
			continue
		}
		out = append(out, copiar(&req))
	}
	ordenarPorCreacion(out)
	return out, nil
}

func (r *requerimientoRepoMemoria) SiguienteCodigo(_ context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.correlativo++
	return fmt.Sprintf("REQ-%d-%05d", time.Now().Year(), r.correlativo)
}

func (r *requerimientoRepoMemoria) AgregarEvento(_ context.Context, e *model.EventoTrazabilidad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.eventos[e.DetalleID] = append(r.eventos[e.DetalleID], *e)
	return nil
}

func (r *requerimientoRepoMemoria) EventosPorDetalle(_ context.Context, detalleID uuid.UUID) ([]model.EventoTrazabilidad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	eventos := append([]model.EventoTrazabilidad(nil), r.eventos[detalleID]...)
	// Más reciente primero, como los renderiza el cliente.
	sort.Slice(eventos, func(i, j int) bool { return eventos[i].Fecha.After(eventos[j].Fecha) })
	return eventos, nil
}

func copiar(req *model.Requerimiento) model.Requerimiento {
	copia := *req
	copia.Detalles = append([]model.RequerimientoDetalle(nil), req.Detalles...)
	return copia
}

func ordenarPorCreacion(reqs []model.Requerimiento) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
}
