// Package store contiene los dos únicos estados persistidos del cliente: la
// sesión autenticada y el árbol de menú cacheado. Ambos son caches de la
// verdad del servidor, reconstruibles con un login o un refresco; borrar el
// directorio de estado nunca pierde datos.
//
// Cada store expone el par Snapshot/Suscribir para que tanto la capa
// reactiva (TUI) como el código imperativo (inyección de token, guardas de
// ruta) lean el estado vigente sin acoplarse entre sí. Las escrituras están
// confinadas a dos puntos: login/logout para la sesión y el refresco de menú.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

const archivoSesion = "sesion.json"

// Sesion es el estado autenticado que se persiste entre ejecuciones.
type Sesion struct {
	Token   string              `json:"token"`
	Usuario dto.UsuarioResponse `json:"usuario"`
}

// SesionStore es un contenedor de estado con un solo escritor lógico
// (login/logout). El resto del programa solo lee snapshots.
type SesionStore struct {
	mu     sync.RWMutex
	ruta   string
	actual *Sesion
	subs   map[int]func()
	nextID int
}

// NuevoSesionStore carga la sesión persistida si existe. Un archivo corrupto
// se descarta en silencio: la sesión es un cache, no una fuente de verdad.
func NuevoSesionStore(dir string) (*SesionStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store: crear directorio de estado: %w", err)
	}
	s := &SesionStore{
		ruta: filepath.Join(dir, archivoSesion),
		subs: make(map[int]func()),
	}
	data, err := os.ReadFile(s.ruta)
	if err == nil {
		var ses Sesion
		if json.Unmarshal(data, &ses) == nil && ses.Token != "" {
			s.actual = &ses
		}
	}
	return s, nil
}

// Snapshot devuelve una copia del estado vigente. El segundo valor es false
// cuando no hay sesión iniciada.
func (s *SesionStore) Snapshot() (Sesion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actual == nil {
		return Sesion{}, false
	}
	return *s.actual, true
}

// Token implementa api.TokenProvider.
func (s *SesionStore) Token() string {
	ses, ok := s.Snapshot()
	if !ok {
		return ""
	}
	return ses.Token
}

// Suscribir registra un callback que se invoca en cada escritura. Devuelve la
// función de baja.
func (s *SesionStore) Suscribir(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// IniciarSesion guarda token y usuario y los persiste a disco.
func (s *SesionStore) IniciarSesion(token string, usuario dto.UsuarioResponse) error {
	s.mu.Lock()
	s.actual = &Sesion{Token: token, Usuario: usuario}
	err := s.persistir()
	subs := s.copiarSubs()
	s.mu.Unlock()
	notificar(subs)
	return err
}

// CerrarSesion descarta el estado y borra el archivo.
func (s *SesionStore) CerrarSesion() error {
	s.mu.Lock()
	s.actual = nil
	err := os.Remove(s.ruta)
	subs := s.copiarSubs()
	s.mu.Unlock()
	notificar(subs)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: borrar sesion: %w", err)
	}
	return nil
}

// Expirada reporta si el token guardado ya venció según su claim exp. El
// token no se verifica criptográficamente — el cliente no conoce el secreto —
// solo se lee la fecha para anticipar el 401 y mandar al operador al login.
func (s *SesionStore) Expirada(ahora time.Time) bool {
	ses, ok := s.Snapshot()
	if !ok {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ses.Token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return ahora.After(exp.Time)
}

func (s *SesionStore) persistir() error {
	data, err := json.MarshalIndent(s.actual, "", "  ")
	if err != nil {
		return fmt.Errorf("store: serializar sesion: %w", err)
	}
	if err := os.WriteFile(s.ruta, data, 0o600); err != nil {
		return fmt.Errorf("store: escribir sesion: %w", err)
	}
	return nil
}

func (s *SesionStore) copiarSubs() []func() {
	out := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notificar(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
