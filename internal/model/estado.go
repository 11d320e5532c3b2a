package model

// EstadoDetalle es el estado de una línea dentro de un requerimiento de
// almacén. El conjunto es cerrado: el backend es el único que transiciona
// estados, el cliente se limita a renderizar el valor recibido y a pedir
// transiciones. Cualquier valor fuera de este conjunto se trata como dato
// corrupto del servidor.
type EstadoDetalle string

const (
	DetallePendiente           EstadoDetalle = "Pendiente"
	DetalleAprobacionLogistica EstadoDetalle = "AprobacionLogistica"
	DetalleDespachoIniciado    EstadoDetalle = "DespachoIniciado"
	DetalleCompletado          EstadoDetalle = "Completado"
	DetalleRechazadoLogistica  EstadoDetalle = "RechazadoLogistica"
	DetalleCerrado             EstadoDetalle = "Cerrado"
)

// EsValido reporta si el estado pertenece al conjunto conocido.
func (e EstadoDetalle) EsValido() bool {
	switch e {
	case DetallePendiente, DetalleAprobacionLogistica, DetalleDespachoIniciado,
		DetalleCompletado, DetalleRechazadoLogistica, DetalleCerrado:
		return true
	}
	return false
}

// EsTerminal reporta si el detalle ya no admite ninguna transición.
func (e EstadoDetalle) EsTerminal() bool {
	switch e {
	case DetalleCompletado, DetalleRechazadoLogistica, DetalleCerrado:
		return true
	}
	return false
}

// PermiteAprobacion reporta si el operador puede aprobar o rechazar la línea.
// Solo las líneas pendientes admiten decisión logística.
func (e EstadoDetalle) PermiteAprobacion() bool { return e == DetallePendiente }

// PermiteEntrega reporta si el operador puede registrar una entrega contra la
// línea (aprobada o con despacho parcial en curso).
func (e EstadoDetalle) PermiteEntrega() bool {
	return e == DetalleAprobacionLogistica || e == DetalleDespachoIniciado
}

// EstadoRequerimiento es el estado agregado del requerimiento completo.
// Es una proyección que recalcula el servidor después de cada transición de
// detalle; el cliente nunca lo fija directamente.
type EstadoRequerimiento string

const (
	RequerimientoGenerado  EstadoRequerimiento = "Generado"
	RequerimientoPendiente EstadoRequerimiento = "Pendiente"
	RequerimientoAprobado  EstadoRequerimiento = "Aprobado"
	RequerimientoAtendido  EstadoRequerimiento = "Atendido"
	RequerimientoRechazado EstadoRequerimiento = "Rechazado"
	RequerimientoAnulado   EstadoRequerimiento = "Anulado"
)

// Urgencia clasifica la prioridad declarada por el solicitante.
type Urgencia string

const (
	UrgenciaNormal     Urgencia = "Normal"
	UrgenciaUrgente    Urgencia = "Urgente"
	UrgenciaEmergencia Urgencia = "Emergencia"
)
