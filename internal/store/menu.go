package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

const archivoMenu = "menu.json"

// MenuStore cachea el árbol de navegación que arma el backend según el rol.
// Se escribe solo en el refresco posterior al login; el resto del programa
// lee snapshots.
type MenuStore struct {
	mu     sync.RWMutex
	ruta   string
	arbol  []dto.MenuItem
	subs   map[int]func()
	nextID int
}

func NuevoMenuStore(dir string) (*MenuStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store: crear directorio de estado: %w", err)
	}
	m := &MenuStore{
		ruta: filepath.Join(dir, archivoMenu),
		subs: make(map[int]func()),
	}
	data, err := os.ReadFile(m.ruta)
	if err == nil {
		var arbol []dto.MenuItem
		if json.Unmarshal(data, &arbol) == nil {
			m.arbol = arbol
		}
	}
	return m, nil
}

// Snapshot devuelve el árbol cacheado (puede ser nil si nunca se refrescó).
func (m *MenuStore) Snapshot() []dto.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.arbol == nil {
		return nil
	}
	out := make([]dto.MenuItem, len(m.arbol))
	copy(out, m.arbol)
	return out
}

func (m *MenuStore) Suscribir(fn func()) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Actualizar reemplaza el árbol y lo persiste.
func (m *MenuStore) Actualizar(arbol []dto.MenuItem) error {
	m.mu.Lock()
	m.arbol = arbol
	data, err := json.MarshalIndent(arbol, "", "  ")
	var werr error
	if err != nil {
		werr = fmt.Errorf("store: serializar menu: %w", err)
	} else if err := os.WriteFile(m.ruta, data, 0o600); err != nil {
		werr = fmt.Errorf("store: escribir menu: %w", err)
	}
	subs := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	notificar(subs)
	return werr
}

// Limpiar descarta el cache (se invoca en el logout).
func (m *MenuStore) Limpiar() {
	m.mu.Lock()
	m.arbol = nil
	_ = os.Remove(m.ruta)
	subs := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	notificar(subs)
}
