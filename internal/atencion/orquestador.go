// Package atencion coordina el flujo de atención de un requerimiento desde el
// punto de vista del cliente: cargar el detalle autoritativo, disparar
// transiciones (aprobar, rechazar, entregar, finalizar) y recargar después de
// cada una. El cliente nunca calcula el estado siguiente de una línea: todo
// estado mostrado proviene de la última recarga del servidor.
package atencion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

// Errores de validación local: se detectan antes de tocar la red, la acción
// ni siquiera emite el request.
var (
	ErrOperacionEnCurso    = errors.New("hay una operacion en curso")
	ErrComentarioRequerido = errors.New("el comentario de rechazo es obligatorio")
	ErrEntregaVacia        = errors.New("la entrega no tiene cantidades asignadas")
	ErrSinDetalle          = errors.New("no hay requerimiento cargado")
)

// Backend es el subconjunto del cliente REST que necesita el orquestador.
// api.Client lo satisface; los tests usan un doble en memoria.
type Backend interface {
	ObtenerRequerimiento(ctx context.Context, id string) (*dto.RequerimientoResponse, error)
	CambiarEstadoDetalle(ctx context.Context, req dto.CambiarEstadoDetalleRequest) error
	RegistrarEntrega(ctx context.Context, req dto.RegistrarEntregaRequest) error
	Finalizar(ctx context.Context, idRequerimiento string) error
	ObtenerLotesDisponibles(ctx context.Context, idProducto, idAlmacen string) ([]dto.LoteResponse, error)
	ObtenerTrazabilidad(ctx context.Context, idDetalle string) ([]dto.EventoTrazabilidadResponse, error)
}

// Orquestador es dueño del detalle cargado de UN requerimiento y secuencia el
// ciclo cargar → actuar → recargar. Cada acción del operador emite exactamente
// una llamada de red y, si tiene éxito, exactamente una recarga completa del
// detalle (recarga total, no parche incremental: más simple a costa de un
// parpadeo visible).
type Orquestador struct {
	backend Backend

	mu      sync.Mutex
	enCurso bool
	id      string
	detalle *dto.RequerimientoResponse
}

func NuevoOrquestador(backend Backend) *Orquestador {
	return &Orquestador{backend: backend}
}

// Detalle devuelve el último snapshot cargado (nil si nunca se cargó).
func (o *Orquestador) Detalle() *dto.RequerimientoResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.detalle
}

// BuscarDetalle localiza una línea por id dentro del snapshot vigente.
func (o *Orquestador) BuscarDetalle(idDetalle string) (dto.DetalleResponse, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.detalle == nil {
		return dto.DetalleResponse{}, false
	}
	for _, d := range o.detalle.Detalles {
		if d.ID == idDetalle {
			return d, true
		}
	}
	return dto.DetalleResponse{}, false
}

// CargarDetalle trae el detalle completo del requerimiento. Si la carga
// falla, el snapshot anterior queda intacto y el error se devuelve al
// llamador; no hay reintento automático.
func (o *Orquestador) CargarDetalle(ctx context.Context, id string) error {
	resp, err := o.backend.ObtenerRequerimiento(ctx, id)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.id = id
	o.detalle = resp
	o.mu.Unlock()
	return nil
}

// AprobarDetalle pide la transición Pendiente → AprobacionLogistica.
func (o *Orquestador) AprobarDetalle(ctx context.Context, idDetalle string) error {
	return o.transicion(ctx, func(ctx context.Context) error {
		return o.backend.CambiarEstadoDetalle(ctx, dto.CambiarEstadoDetalleRequest{
			IDDetalle:   idDetalle,
			NuevoEstado: string(model.DetalleAprobacionLogistica),
		})
	})
}

// RechazarDetalle pide la transición Pendiente → RechazadoLogistica. El
// comentario es obligatorio; en blanco la acción no emite ninguna llamada.
func (o *Orquestador) RechazarDetalle(ctx context.Context, idDetalle, comentario string) error {
	comentario = strings.TrimSpace(comentario)
	if comentario == "" {
		return ErrComentarioRequerido
	}
	return o.transicion(ctx, func(ctx context.Context) error {
		return o.backend.CambiarEstadoDetalle(ctx, dto.CambiarEstadoDetalleRequest{
			IDDetalle:         idDetalle,
			NuevoEstado:       string(model.DetalleRechazadoLogistica),
			ComentarioRechazo: comentario,
		})
	})
}

// RegistrarEntrega envía una entrega repartida entre lotes. La asignación
// debe sumar más que cero; el servidor decide el estado resultante
// (DespachoIniciado si es parcial, Completado si iguala lo solicitado).
func (o *Orquestador) RegistrarEntrega(ctx context.Context, asig *AsignacionLotes, observacion string) error {
	if !asig.Valida() {
		return ErrEntregaVacia
	}
	req := asig.Solicitud(observacion, time.Now())
	return o.transicion(ctx, func(ctx context.Context) error {
		return o.backend.RegistrarEntrega(ctx, req)
	})
}

// Finalizar fuerza el cierre del requerimiento cargado. La confirmación con
// el operador es responsabilidad de la vista; llegar aquí ya implica
// confirmación.
func (o *Orquestador) Finalizar(ctx context.Context) error {
	o.mu.Lock()
	id := o.id
	o.mu.Unlock()
	if id == "" {
		return ErrSinDetalle
	}
	return o.transicion(ctx, func(ctx context.Context) error {
		return o.backend.Finalizar(ctx, id)
	})
}

// CargarLotes trae los lotes con stock para una línea.
func (o *Orquestador) CargarLotes(ctx context.Context, idProducto, idAlmacen string) ([]dto.LoteResponse, error) {
	return o.backend.ObtenerLotesDisponibles(ctx, idProducto, idAlmacen)
}

// CargarTrazabilidad trae la línea de tiempo de una línea, siempre fresca.
func (o *Orquestador) CargarTrazabilidad(ctx context.Context, idDetalle string) ([]dto.EventoTrazabilidadResponse, error) {
	return o.backend.ObtenerTrazabilidad(ctx, idDetalle)
}

// transicion ejecuta una mutación con el candado de operación única: mientras
// una acción del operador está en vuelo, cualquier otra devuelve
// ErrOperacionEnCurso sin tocar la red. Tras el éxito recarga el detalle una
// sola vez; el error de recarga se reporta pero la transición ya ocurrió.
func (o *Orquestador) transicion(ctx context.Context, fn func(context.Context) error) error {
	o.mu.Lock()
	if o.enCurso {
		o.mu.Unlock()
		return ErrOperacionEnCurso
	}
	if o.id == "" {
		o.mu.Unlock()
		return ErrSinDetalle
	}
	o.enCurso = true
	id := o.id
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.enCurso = false
		o.mu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	if err := o.CargarDetalle(ctx, id); err != nil {
		return fmt.Errorf("la transicion se aplico pero la recarga fallo: %w", err)
	}
	return nil
}
