package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

// CatalogoRepository guarda las entidades maestras que el cliente consume en
// selects y cabeceras: minas, almacenes y productos. El CRUD completo es del
// backend real; el stub solo necesita lectura sobre datos sembrados.
type CatalogoRepository interface {
	CrearMina(ctx context.Context, m *model.Mina) error
	CrearAlmacen(ctx context.Context, a *model.Almacen) error
	CrearProducto(ctx context.Context, p *model.Producto) error

	FindMina(ctx context.Context, id uuid.UUID) (*model.Mina, error)
	FindAlmacen(ctx context.Context, id uuid.UUID) (*model.Almacen, error)
	FindProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error)
}

type catalogoRepoMemoria struct {
	mu        sync.RWMutex
	minas     map[uuid.UUID]model.Mina
	almacenes map[uuid.UUID]model.Almacen
	productos map[uuid.UUID]model.Producto
}

func NewCatalogoRepository() CatalogoRepository {
	return &catalogoRepoMemoria{
		minas:     make(map[uuid.UUID]model.Mina),
		almacenes: make(map[uuid.UUID]model.Almacen),
		productos: make(map[uuid.UUID]model.Producto),
	}
}

func (r *catalogoRepoMemoria) CrearMina(_ context.Context, m *model.Mina) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.minas[m.ID] = *m
	return nil
}

func (r *catalogoRepoMemoria) CrearAlmacen(_ context.Context, a *model.Almacen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.almacenes[a.ID] = *a
	return nil
}

func (r *catalogoRepoMemoria) CrearProducto(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *catalogoRepoMemoria) FindMina(_ context.Context, id uuid.UUID) (*model.Mina, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.minas[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := m
	return &copia, nil
}

func (r *catalogoRepoMemoria) FindAlmacen(_ context.Context, id uuid.UUID) (*model.Almacen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.almacenes[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := a
	return &copia, nil
}

func (r *catalogoRepoMemoria) FindProducto(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := p
	return &copia, nil
}
