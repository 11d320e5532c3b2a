package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	Save(ctx context.Context, l *model.Lote) error
	// ListarDisponibles devuelve los lotes con stock > 0 de un producto en un
	// almacén, ordenados por fecha de ingreso (los más antiguos primero, para
	// que el operador pueda aplicar FIFO a mano).
	ListarDisponibles(ctx context.Context, productoID, almacenID uuid.UUID) ([]model.Lote, error)
}

type loteRepoMemoria struct {
	mu    sync.RWMutex
	porID map[uuid.UUID]model.Lote
}

func NewLoteRepository() LoteRepository {
	return &loteRepoMemoria{porID: make(map[uuid.UUID]model.Lote)}
}

func (r *loteRepoMemoria) Create(_ context.Context, l *model.Lote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.porID[l.ID] = *l
	return nil
}

func (r *loteRepoMemoria) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.porID[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := l
	return &copia, nil
}

func (r *loteRepoMemoria) Save(_ context.Context, l *model.Lote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.porID[l.ID]; !ok {
		return ErrNoEncontrado
	}
	r.porID[l.ID] = *l
	return nil
}

func (r *loteRepoMemoria) ListarDisponibles(_ context.Context, productoID, almacenID uuid.UUID) ([]model.Lote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Lote
	for _, l := range r.porID {
		if l.ProductoID == productoID && l.AlmacenID == almacenID && l.StockActual.IsPositive() {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaIngreso.Before(out[j].FechaIngreso) })
	return out, nil
}
