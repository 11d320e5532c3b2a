package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

// AtencionService es el dueño de la máquina de estados de las líneas de
// requerimiento. Transiciones legales:
//
//	Pendiente → AprobacionLogistica (aprobar)
//	Pendiente → RechazadoLogistica  (rechazar, comentario obligatorio)
//	AprobacionLogistica | DespachoIniciado → DespachoIniciado | Completado
//	    (registrar entrega; Completado cuando atendida == solicitada)
//	cualquier no terminal → Cerrado (finalización forzada del requerimiento)
//
// Después de cada transición se agrega un evento de trazabilidad y se
// recalcula el estado agregado del requerimiento.
type AtencionService interface {
	ObtenerPendientes(ctx context.Context, req dto.ObtenerPendientesRequest) ([]dto.PendienteResponse, error)
	CambiarEstadoDetalle(ctx context.Context, actor *model.Usuario, req dto.CambiarEstadoDetalleRequest) error
	ObtenerLotes(ctx context.Context, req dto.ObtenerLotesRequest) ([]dto.LoteResponse, error)
	RegistrarEntrega(ctx context.Context, actor *model.Usuario, req dto.RegistrarEntregaRequest) error
	Finalizar(ctx context.Context, actor *model.Usuario, req dto.FinalizarRequest) error
}

type atencionService struct {
	// mu serializa las transiciones completas (detalle + lotes + eventos).
	// En el backend real esto es una transacción de base de datos.
	mu    sync.Mutex
	repo  repository.RequerimientoRepository
	lotes repository.LoteRepository
}

func NewAtencionService(repo repository.RequerimientoRepository, lotes repository.LoteRepository) AtencionService {
	return &atencionService{repo: repo, lotes: lotes}
}

func (s *atencionService) ObtenerPendientes(ctx context.Context, req dto.ObtenerPendientesRequest) ([]dto.PendienteResponse, error) {
	almacenID, err := uuid.Parse(req.IDAlmacen)
	if err != nil {
		return nil, errors.New("id_almacen invalido")
	}
	reqs, err := s.repo.ListConAbiertosPorAlmacen(ctx, almacenID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendienteResponse, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		out = append(out, dto.PendienteResponse{
			ID:               r.ID.String(),
			Codigo:           r.Codigo,
			Solicitante:      r.Solicitante,
			Origen:           r.OrigenNombre,
			Urgencia:         string(r.Urgencia),
			FechaRequerida:   r.FechaRequerida.Format("2006-01-02"),
			Avance:           r.AvanceGlobal(),
			DetallesAbiertos: len(r.DetallesAbiertos()),
		})
	}
	return out, nil
}

func (s *atencionService) CambiarEstadoDetalle(ctx context.Context, actor *model.Usuario, req dto.CambiarEstadoDetalleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	detalleID, err := uuid.Parse(req.IDDetalle)
	if err != nil {
		return errors.New("id de detalle invalido")
	}
	r, err := s.repo.FindByDetalle(ctx, detalleID)
	if err != nil {
		return errors.New("detalle no encontrado")
	}
	d := buscarDetalle(r, detalleID)

	nuevoEstado := model.EstadoDetalle(req.NuevoEstado)
	var glosa string
	switch nuevoEstado {
	case model.DetalleAprobacionLogistica:
		if !d.Estado.PermiteAprobacion() {
			return fmt.Errorf("la linea %s ya no esta Pendiente (estado actual: %s)", d.ProductoNombre, d.Estado)
		}
		glosa = "Linea aprobada por logistica"
	case model.DetalleRechazadoLogistica:
		if !d.Estado.PermiteAprobacion() {
			return fmt.Errorf("la linea %s ya no esta Pendiente (estado actual: %s)", d.ProductoNombre, d.Estado)
		}
		comentario := strings.TrimSpace(req.ComentarioRechazo)
		if comentario == "" {
			return errors.New("el comentario de rechazo es obligatorio")
		}
		d.ComentarioRechazo = comentario
		glosa = "Linea rechazada: " + comentario
	default:
		return fmt.Errorf("transicion a %s no permitida", req.NuevoEstado)
	}

	d.Estado = nuevoEstado
	recalcularEstado(r)
	if err := s.repo.Save(ctx, r); err != nil {
		return err
	}
	return s.registrarEvento(ctx, d.ID, glosa, nuevoEstado, actor)
}

func (s *atencionService) ObtenerLotes(ctx context.Context, req dto.ObtenerLotesRequest) ([]dto.LoteResponse, error) {
	productoID, err := uuid.Parse(req.IDProducto)
	if err != nil {
		return nil, errors.New("id_producto invalido")
	}
	almacenID, err := uuid.Parse(req.IDAlmacen)
	if err != nil {
		return nil, errors.New("id_almacen invalido")
	}
	lotes, err := s.lotes.ListarDisponibles(ctx, productoID, almacenID)
	if err != nil {
		return nil, err
	}
	ahora := time.Now()
	out := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		l := &lotes[i]
		resp := dto.LoteResponse{
			ID:           l.ID.String(),
			Codigo:       l.Codigo,
			StockActual:  l.StockActual,
			UnidadMedida: l.UnidadMedida,
			FechaIngreso: l.FechaIngreso.Format("2006-01-02"),
		}
		if l.FechaVencimiento != nil {
			fv := l.FechaVencimiento.Format("2006-01-02")
			resp.FechaVencimiento = &fv
			if dias, ok := l.DiasParaVencer(ahora); ok {
				resp.DiasParaVencer = &dias
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *atencionService) RegistrarEntrega(ctx context.Context, actor *model.Usuario, req dto.RegistrarEntregaRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqID, err := uuid.Parse(req.IDRequerimiento)
	if err != nil {
		return errors.New("id_requerimiento invalido")
	}
	r, err := s.repo.FindByID(ctx, reqID)
	if err != nil {
		return errors.New("requerimiento no encontrado")
	}

	// Primera pasada: validar todas las líneas antes de aplicar nada. Un
	// mismo lote puede aparecer en varias líneas, así que se carga una sola
	// copia por lote y el stock se valida contra la suma agregada, no línea
	// por línea.
	type aplicacion struct {
		detalle *model.RequerimientoDetalle
		lote    *model.Lote
		cant    decimal.Decimal
	}
	var plan []aplicacion
	lotesPorID := make(map[uuid.UUID]*model.Lote)
	porLote := make(map[uuid.UUID]decimal.Decimal)
	for _, linea := range req.Detalles {
		detalleID, err := uuid.Parse(linea.IDDetalle)
		if err != nil {
			return errors.New("id de detalle invalido")
		}
		d := buscarDetalle(r, detalleID)
		if d == nil {
			return errors.New("la linea no pertenece al requerimiento")
		}
		if !d.Estado.PermiteEntrega() {
			return fmt.Errorf("la linea %s no admite entregas (estado: %s)", d.ProductoNombre, d.Estado)
		}
		if !linea.Cantidad.IsPositive() {
			return errors.New("toda cantidad entregada debe ser mayor que cero")
		}
		loteID, err := uuid.Parse(linea.IDLote)
		if err != nil {
			return errors.New("id_lote invalido")
		}
		lote, ok := lotesPorID[loteID]
		if !ok {
			lote, err = s.lotes.FindByID(ctx, loteID)
			if err != nil {
				return errors.New("lote no encontrado")
			}
			lotesPorID[loteID] = lote
		}
		if lote.ProductoID != d.ProductoID || lote.AlmacenID != r.AlmacenID {
			return fmt.Errorf("el lote %s no corresponde al producto o almacen de la linea", lote.Codigo)
		}
		porLote[loteID] = porLote[loteID].Add(linea.Cantidad)
		plan = append(plan, aplicacion{detalle: d, lote: lote, cant: linea.Cantidad})
	}

	// La suma por lote no puede exceder su stock.
	for id, total := range porLote {
		lote := lotesPorID[id]
		if total.GreaterThan(lote.StockActual) {
			return fmt.Errorf("el lote %s no tiene stock suficiente (%s disponibles)", lote.Codigo, lote.StockActual)
		}
	}

	// La suma por detalle no puede exceder lo pendiente de atender.
	porDetalle := make(map[uuid.UUID]decimal.Decimal)
	for _, a := range plan {
		porDetalle[a.detalle.ID] = porDetalle[a.detalle.ID].Add(a.cant)
	}
	for id, total := range porDetalle {
		d := buscarDetalle(r, id)
		pendiente := d.CantidadSolicitada.Sub(d.CantidadAtendida)
		if total.GreaterThan(pendiente) {
			return fmt.Errorf("la entrega de %s excede lo pendiente (%s)", d.ProductoNombre, pendiente)
		}
	}

	// Segunda pasada: un solo descuento por lote, con el total agregado.
	for id, total := range porLote {
		lote := lotesPorID[id]
		lote.StockActual = lote.StockActual.Sub(total)
		if err := s.lotes.Save(ctx, lote); err != nil {
			return err
		}
	}
	for _, a := range plan {
		a.detalle.CantidadAtendida = a.detalle.CantidadAtendida.Add(a.cant)
		glosa := fmt.Sprintf("Entrega de %s %s contra lote %s", a.cant, a.detalle.UnidadMedida, a.lote.Codigo)
		if req.Observacion != "" {
			glosa += " (" + req.Observacion + ")"
		}
		if a.detalle.CantidadAtendida.Equal(a.detalle.CantidadSolicitada) {
			a.detalle.Estado = model.DetalleCompletado
		} else {
			a.detalle.Estado = model.DetalleDespachoIniciado
		}
		if err := s.registrarEvento(ctx, a.detalle.ID, glosa, a.detalle.Estado, actor); err != nil {
			return err
		}
	}

	recalcularEstado(r)
	return s.repo.Save(ctx, r)
}

func (s *atencionService) Finalizar(ctx context.Context, actor *model.Usuario, req dto.FinalizarRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqID, err := uuid.Parse(req.IDRequerimiento)
	if err != nil {
		return errors.New("id_requerimiento invalido")
	}
	r, err := s.repo.FindByID(ctx, reqID)
	if err != nil {
		return errors.New("requerimiento no encontrado")
	}
	abiertos := r.DetallesAbiertos()
	if len(abiertos) == 0 {
		return errors.New("el requerimiento no tiene lineas abiertas")
	}
	for i := range r.Detalles {
		d := &r.Detalles[i]
		if d.Estado.EsTerminal() {
			continue
		}
		d.Estado = model.DetalleCerrado
		if err := s.registrarEvento(ctx, d.ID, "Cerrado por finalizacion del requerimiento", model.DetalleCerrado, actor); err != nil {
			return err
		}
	}
	recalcularEstado(r)
	return s.repo.Save(ctx, r)
}

func (s *atencionService) registrarEvento(ctx context.Context, detalleID uuid.UUID, glosa string, estado model.EstadoDetalle, actor *model.Usuario) error {
	nombre := "sistema"
	if actor != nil {
		nombre = actor.Nombre
	}
	evento := model.EventoTrazabilidad{
		DetalleID: detalleID,
		Glosa:     glosa,
		Estado:    estado,
		Usuario:   nombre,
		Fecha:     time.Now(),
	}
	return s.repo.AgregarEvento(ctx, &evento)
}

func buscarDetalle(r *model.Requerimiento, id uuid.UUID) *model.RequerimientoDetalle {
	for i := range r.Detalles {
		if r.Detalles[i].ID == id {
			return &r.Detalles[i]
		}
	}
	return nil
}

// recalcularEstado proyecta el estado agregado a partir de las líneas.
// El cliente nunca fija este valor: siempre se deriva aquí.
func recalcularEstado(r *model.Requerimiento) {
	todosTerminales := true
	todosRechazados := true
	algunoDecidido := false
	for i := range r.Detalles {
		e := r.Detalles[i].Estado
		if !e.EsTerminal() {
			todosTerminales = false
		}
		if e != model.DetalleRechazadoLogistica {
			todosRechazados = false
		}
		if e != model.DetallePendiente {
			algunoDecidido = true
		}
	}
	switch {
	case len(r.Detalles) == 0:
		r.Estado = model.RequerimientoGenerado
	case todosTerminales && todosRechazados:
		r.Estado = model.RequerimientoRechazado
	case todosTerminales:
		r.Estado = model.RequerimientoAtendido
	case algunoDecidido:
		r.Estado = model.RequerimientoAprobado
	default:
		r.Estado = model.RequerimientoGenerado
	}
}
