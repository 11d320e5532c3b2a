package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

// modoAtencion es el submodo dentro de la vista de atención.
type modoAtencion int

const (
	modoLista modoAtencion = iota
	modoDetalle
	modoRechazo
	modoEntrega
	modoTraza
	modoCierre
)

// ── Mensajes ──────────────────────────────────────────────────────────────────

type pendientesMsg struct {
	filas []dto.PendienteResponse
	err   error
}

type detalleCargadoMsg struct {
	err error
}

// transicionMsg es el resultado de cualquier mutación (aprobar, rechazar,
// entregar, finalizar). El orquestador ya recargó el detalle cuando llega.
type transicionMsg struct {
	accion string
	err    error
}

type lotesCargadosMsg struct {
	idDetalle string
	lotes     []dto.LoteResponse
	err       error
}

type trazaCargadaMsg struct {
	idDetalle string
	eventos   []dto.EventoTrazabilidadResponse
	err       error
}

// vistaAtencion cubre el flujo del almacenero: lista de pendientes → detalle
// del requerimiento → acciones por línea. Mientras una operación está en
// vuelo (cargando=true) todas las acciones quedan deshabilitadas; el
// orquestador además rechaza cualquier segunda mutación concurrente.
type vistaAtencion struct {
	app       *App
	modo      modoAtencion
	idAlmacen string

	pendientes     []dto.PendienteResponse
	seleccionFila  int
	seleccionLinea int
	cargando       bool
	status         string
	errMsg         string

	rechazo   textinput.Model
	rechazoDe string

	entrega *vistaEntrega

	eventos []dto.EventoTrazabilidadResponse
	trazaDe string
}

func nuevaVistaAtencion(app *App, idAlmacen string) *vistaAtencion {
	rechazo := textinput.New()
	rechazo.Placeholder = "motivo del rechazo"
	rechazo.CharLimit = 200
	return &vistaAtencion{
		app:       app,
		modo:      modoLista,
		idAlmacen: idAlmacen,
		rechazo:   rechazo,
	}
}

func (v *vistaAtencion) enRaiz() bool { return v.modo == modoLista && !v.cargando }

func (v *vistaAtencion) init() tea.Cmd {
	v.cargando = true
	return v.cargarPendientes()
}

// ── Comandos ──────────────────────────────────────────────────────────────────

func (v *vistaAtencion) cargarPendientes() tea.Cmd {
	idAlmacen := v.idAlmacen
	return func() tea.Msg {
		filas, err := v.app.cliente.ObtenerPendientes(context.Background(), idAlmacen)
		return pendientesMsg{filas: filas, err: err}
	}
}

func (v *vistaAtencion) cargarDetalle(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.app.orq.CargarDetalle(context.Background(), id)
		return detalleCargadoMsg{err: err}
	}
}

func (v *vistaAtencion) aprobar(idDetalle string) tea.Cmd {
	return func() tea.Msg {
		err := v.app.orq.AprobarDetalle(context.Background(), idDetalle)
		return transicionMsg{accion: "Linea aprobada", err: err}
	}
}

func (v *vistaAtencion) rechazar(idDetalle, comentario string) tea.Cmd {
	return func() tea.Msg {
		err := v.app.orq.RechazarDetalle(context.Background(), idDetalle, comentario)
		return transicionMsg{accion: "Linea rechazada", err: err}
	}
}

func (v *vistaAtencion) cargarLotes(d dto.DetalleResponse) tea.Cmd {
	detalle := v.app.orq.Detalle()
	idAlmacen := ""
	if detalle != nil {
		idAlmacen = detalle.IDAlmacen
	}
	return func() tea.Msg {
		lotes, err := v.app.orq.CargarLotes(context.Background(), d.IDProducto, idAlmacen)
		return lotesCargadosMsg{idDetalle: d.ID, lotes: lotes, err: err}
	}
}

func (v *vistaAtencion) enviarEntrega() tea.Cmd {
	asig := v.entrega.asig
	observacion := v.entrega.observacion.Value()
	return func() tea.Msg {
		err := v.app.orq.RegistrarEntrega(context.Background(), asig, observacion)
		return transicionMsg{accion: "Entrega registrada", err: err}
	}
}

func (v *vistaAtencion) finalizar() tea.Cmd {
	return func() tea.Msg {
		err := v.app.orq.Finalizar(context.Background())
		return transicionMsg{accion: "Requerimiento finalizado", err: err}
	}
}

func (v *vistaAtencion) cargarTraza(idDetalle string) tea.Cmd {
	return func() tea.Msg {
		eventos, err := v.app.orq.CargarTrazabilidad(context.Background(), idDetalle)
		return trazaCargadaMsg{idDetalle: idDetalle, eventos: eventos, err: err}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (v *vistaAtencion) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {

	case pendientesMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		v.pendientes = m.filas
		if v.seleccionFila >= len(v.pendientes) {
			v.seleccionFila = max(0, len(v.pendientes)-1)
		}
		return nil

	case detalleCargadoMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			// La carga falló: se conserva la pantalla anterior con el error.
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		v.modo = modoDetalle
		v.seleccionLinea = 0
		return nil

	case transicionMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			// Fallo terminal: el estado local no cambia y no hay reintento.
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		v.status = m.accion
		v.modo = modoDetalle
		v.entrega = nil
		v.rechazo.SetValue("")
		return nil

	case lotesCargadosMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		if len(m.lotes) == 0 {
			v.status = "No hay lotes con stock para este producto"
			return nil
		}
		detalle := v.app.orq.Detalle()
		linea, ok := v.app.orq.BuscarDetalle(m.idDetalle)
		if detalle == nil || !ok {
			return nil
		}
		v.entrega = nuevaVistaEntrega(detalle.ID, linea, m.lotes)
		v.modo = modoEntrega
		return nil

	case trazaCargadaMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		v.eventos = m.eventos
		v.trazaDe = m.idDetalle
		v.modo = modoTraza
		return nil

	case tea.KeyMsg:
		return v.manejarTecla(m)
	}
	return nil
}

func (v *vistaAtencion) manejarTecla(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Con una operación en vuelo la vista solo observa; ninguna tecla de
	// acción emite comandos.
	if v.cargando {
		return nil
	}

	switch v.modo {
	case modoLista:
		return v.teclaLista(key)
	case modoDetalle:
		return v.teclaDetalle(key)
	case modoRechazo:
		return v.teclaRechazo(msg)
	case modoEntrega:
		return v.teclaEntrega(msg)
	case modoTraza:
		if key == "esc" || key == "enter" {
			v.modo = modoDetalle
			v.eventos = nil
			v.trazaDe = ""
		}
	case modoCierre:
		return v.teclaCierre(key)
	}
	return nil
}

func (v *vistaAtencion) teclaLista(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if v.seleccionFila > 0 {
			v.seleccionFila--
		}
	case "down", "j":
		if v.seleccionFila < len(v.pendientes)-1 {
			v.seleccionFila++
		}
	case "r":
		v.cargando = true
		v.status = "Actualizando pendientes…"
		return v.cargarPendientes()
	case "enter":
		if len(v.pendientes) == 0 {
			return nil
		}
		v.cargando = true
		v.status = ""
		return v.cargarDetalle(v.pendientes[v.seleccionFila].ID)
	}
	return nil
}

func (v *vistaAtencion) teclaDetalle(key string) tea.Cmd {
	detalle := v.app.orq.Detalle()
	if detalle == nil {
		v.modo = modoLista
		return nil
	}
	switch key {
	case "esc":
		v.modo = modoLista
		v.status = ""
		v.cargando = true
		return v.cargarPendientes()
	case "up", "k":
		if v.seleccionLinea > 0 {
			v.seleccionLinea--
		}
	case "down", "j":
		if v.seleccionLinea < len(detalle.Detalles)-1 {
			v.seleccionLinea++
		}
	case "a":
		linea, ok := v.lineaSeleccionada()
		if !ok || !model.EstadoDetalle(linea.Estado).PermiteAprobacion() {
			v.status = "La linea seleccionada no admite aprobacion"
			return nil
		}
		v.cargando = true
		return v.aprobar(linea.ID)
	case "x":
		linea, ok := v.lineaSeleccionada()
		if !ok || !model.EstadoDetalle(linea.Estado).PermiteAprobacion() {
			v.status = "La linea seleccionada no admite rechazo"
			return nil
		}
		v.rechazoDe = linea.ID
		v.rechazo.SetValue("")
		v.rechazo.Focus()
		v.modo = modoRechazo
	case "e":
		linea, ok := v.lineaSeleccionada()
		if !ok || !model.EstadoDetalle(linea.Estado).PermiteEntrega() {
			v.status = "La linea seleccionada no admite entregas"
			return nil
		}
		v.cargando = true
		return v.cargarLotes(linea)
	case "t":
		linea, ok := v.lineaSeleccionada()
		if !ok {
			return nil
		}
		v.cargando = true
		return v.cargarTraza(linea.ID)
	case "f":
		v.modo = modoCierre
	}
	return nil
}

// teclaRechazo maneja el diálogo de rechazo: el comentario es obligatorio y
// la confirmación queda deshabilitada mientras el campo esté en blanco, sin
// emitir ninguna llamada.
func (v *vistaAtencion) teclaRechazo(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.modo = modoDetalle
		v.rechazo.Blur()
		v.rechazo.SetValue("")
		return nil
	case "enter":
		if strings.TrimSpace(v.rechazo.Value()) == "" {
			v.errMsg = "El comentario de rechazo es obligatorio"
			return nil
		}
		v.errMsg = ""
		v.cargando = true
		v.rechazo.Blur()
		return v.rechazar(v.rechazoDe, v.rechazo.Value())
	}
	var cmd tea.Cmd
	v.rechazo, cmd = v.rechazo.Update(msg)
	return cmd
}

func (v *vistaAtencion) teclaEntrega(msg tea.KeyMsg) tea.Cmd {
	if v.entrega == nil {
		v.modo = modoDetalle
		return nil
	}
	switch msg.String() {
	case "esc":
		v.modo = modoDetalle
		v.entrega = nil
		return nil
	case "ctrl+s":
		// El envío queda deshabilitado mientras la asignación total sea cero.
		if !v.entrega.asig.Valida() {
			v.errMsg = "Asigne al menos una cantidad antes de registrar"
			return nil
		}
		v.errMsg = ""
		v.cargando = true
		return v.enviarEntrega()
	}
	return v.entrega.manejarTecla(msg)
}

// teclaCierre maneja la confirmación del cierre forzado. Cancelar no emite
// ninguna llamada de red.
func (v *vistaAtencion) teclaCierre(key string) tea.Cmd {
	switch key {
	case "s", "S":
		v.cargando = true
		return v.finalizar()
	case "n", "N", "esc":
		v.modo = modoDetalle
	}
	return nil
}

func (v *vistaAtencion) lineaSeleccionada() (dto.DetalleResponse, bool) {
	detalle := v.app.orq.Detalle()
	if detalle == nil || v.seleccionLinea >= len(detalle.Detalles) {
		return dto.DetalleResponse{}, false
	}
	return detalle.Detalles[v.seleccionLinea], true
}

// ── View ──────────────────────────────────────────────────────────────────────

func (v *vistaAtencion) view() string {
	var cuerpo string
	switch v.modo {
	case modoLista:
		cuerpo = v.renderLista()
	case modoDetalle:
		cuerpo = v.renderDetalle()
	case modoRechazo:
		cuerpo = v.renderDetalle() + "\n\n" + v.renderDialogoRechazo()
	case modoEntrega:
		if v.entrega != nil {
			cuerpo = v.entrega.render()
		}
	case modoTraza:
		linea, _ := v.app.orq.BuscarDetalle(v.trazaDe)
		cuerpo = renderTrazabilidad(linea.Producto, v.eventos)
	case modoCierre:
		cuerpo = v.renderDetalle() + "\n\n" + v.renderDialogoCierre()
	}

	pie := ""
	if v.cargando {
		pie = estiloStatus.Render("Procesando…")
	} else if v.errMsg != "" {
		pie = estiloError.Render(v.errMsg)
	} else if v.status != "" {
		pie = estiloStatus.Render(v.status)
	}
	if pie != "" {
		return cuerpo + "\n\n" + pie
	}
	return cuerpo
}

func (v *vistaAtencion) renderLista() string {
	lineas := []string{estiloTitulo.Render("Atencion de almacen · Requerimientos con lineas abiertas"), ""}
	if len(v.pendientes) == 0 {
		lineas = append(lineas, estiloAyuda.Render("  No hay requerimientos pendientes de atencion."))
	}
	for i, fila := range v.pendientes {
		indicador := "  "
		if i == v.seleccionFila {
			indicador = "> "
		}
		lineas = append(lineas, fmt.Sprintf("%s%-16s %-20s %-12s %s %3d%%  (%d abiertas)",
			indicador, fila.Codigo, recortar(fila.Solicitante, 20), fila.Urgencia,
			barraAvance(fila.Avance, 10), fila.Avance, fila.DetallesAbiertos))
	}
	lineas = append(lineas, "", estiloAyuda.Render("enter=abrir  r=refrescar  esc=menu"))
	return strings.Join(lineas, "\n")
}

func (v *vistaAtencion) renderDetalle() string {
	detalle := v.app.orq.Detalle()
	if detalle == nil {
		return "Sin requerimiento cargado"
	}
	cab := fmt.Sprintf("%s · %s · %s · requerido %s",
		detalle.Codigo, detalle.Origen, detalle.Urgencia, detalle.FechaRequerida)
	lineas := []string{
		estiloTitulo.Render(cab),
		fmt.Sprintf("Solicitante: %s · Estado: %s · Avance global: %s %d%%",
			detalle.Solicitante, detalle.Estado, barraAvance(detalle.Avance, 10), detalle.Avance),
		"",
	}
	for i, d := range detalle.Detalles {
		indicador := "  "
		if i == v.seleccionLinea {
			indicador = "> "
		}
		marca := " "
		if d.EsFiscalizado {
			marca = "!"
		}
		lineas = append(lineas, fmt.Sprintf("%s%s %-28s %8s/%-8s %s %3d%%  %s",
			indicador, marca, recortar(d.Producto, 28),
			d.CantidadAtendida.String(), d.CantidadSolicitada.String(),
			barraAvance(d.Avance, 8), d.Avance, badgeEstado(d.Estado)))
		if i == v.seleccionLinea && d.ComentarioRechazo != "" {
			lineas = append(lineas, estiloAyuda.Render("    rechazo: "+d.ComentarioRechazo))
		}
	}
	lineas = append(lineas, "",
		estiloAyuda.Render("a=aprobar  x=rechazar  e=entregar  t=trazabilidad  f=finalizar  esc=volver"))
	return strings.Join(lineas, "\n")
}

func (v *vistaAtencion) renderDialogoRechazo() string {
	confirmacion := "enter=confirmar"
	if strings.TrimSpace(v.rechazo.Value()) == "" {
		confirmacion = estiloAyuda.Render("enter deshabilitado: comente el motivo")
	}
	contenido := fmt.Sprintf("Rechazar linea\n\nMotivo: %s\n\n%s  esc=cancelar",
		v.rechazo.View(), confirmacion)
	return estiloPanel.Render(contenido)
}

func (v *vistaAtencion) renderDialogoCierre() string {
	detalle := v.app.orq.Detalle()
	abiertas := 0
	if detalle != nil {
		for _, d := range detalle.Detalles {
			if !model.EstadoDetalle(d.Estado).EsTerminal() {
				abiertas++
			}
		}
	}
	contenido := fmt.Sprintf(
		"Finalizar requerimiento\n\nSe cerraran %d lineas abiertas de forma permanente.\n\ns=confirmar  n/esc=cancelar",
		abiertas)
	return estiloPanel.Render(contenido)
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
