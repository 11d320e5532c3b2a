// Package repository implementa el almacenamiento del stub de backend. Todo
// vive en memoria detrás de interfaces; el stub existe para desarrollar y
// probar el cliente contra el contrato REST real, no para persistir nada.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

var ErrNoEncontrado = errors.New("registro no encontrado")

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
}

type usuarioRepoMemoria struct {
	mu    sync.RWMutex
	porID map[uuid.UUID]model.Usuario
}

func NewUsuarioRepository() UsuarioRepository {
	return &usuarioRepoMemoria{porID: make(map[uuid.UUID]model.Usuario)}
}

func (r *usuarioRepoMemoria) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.porID[u.ID] = *u
	return nil
}

func (r *usuarioRepoMemoria) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.porID[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := u
	return &copia, nil
}

func (r *usuarioRepoMemoria) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.porID {
		if u.Username == username && u.Activo {
			copia := u
			return &copia, nil
		}
	}
	return nil, ErrNoEncontrado
}
