package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// modoReqs es el submodo de la vista de requerimientos del solicitante.
type modoReqs int

const (
	modoReqsLista modoReqs = iota
	modoReqsDetalle
	modoReqsTraza
)

type requerimientosMsg struct {
	filas []dto.RequerimientoResponse
	err   error
}

// vistaRequerimientos es la consulta de solo lectura del solicitante: sus
// requerimientos de la mina, el detalle por línea y la trazabilidad. Las
// transiciones pertenecen al flujo de atención, no a esta vista.
type vistaRequerimientos struct {
	app    *App
	modo   modoReqs
	idMina string

	filas          []dto.RequerimientoResponse
	seleccionFila  int
	seleccionLinea int
	cargando       bool
	errMsg         string

	eventos []dto.EventoTrazabilidadResponse
	trazaDe string
}

func nuevaVistaRequerimientos(app *App, idMina string) *vistaRequerimientos {
	return &vistaRequerimientos{app: app, modo: modoReqsLista, idMina: idMina}
}

func (v *vistaRequerimientos) enRaiz() bool { return v.modo == modoReqsLista && !v.cargando }

func (v *vistaRequerimientos) init() tea.Cmd {
	v.cargando = true
	return v.cargarLista()
}

func (v *vistaRequerimientos) cargarLista() tea.Cmd {
	idMina := v.idMina
	return func() tea.Msg {
		filas, err := v.app.cliente.ListarRequerimientos(context.Background(), idMina)
		return requerimientosMsg{filas: filas, err: err}
	}
}

func (v *vistaRequerimientos) cargarTraza(idDetalle string) tea.Cmd {
	return func() tea.Msg {
		eventos, err := v.app.orq.CargarTrazabilidad(context.Background(), idDetalle)
		return trazaCargadaMsg{idDetalle: idDetalle, eventos: eventos, err: err}
	}
}

func (v *vistaRequerimientos) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {

	case requerimientosMsg:
		v.cargando = false
		if m.err != nil {
			if errEsSesionExpirada(m.err) {
				return func() tea.Msg { return sesionExpiradaMsg{} }
			}
			v.errMsg = m.err.Error()
			return nil
		}
		v.errMsg = ""
		v.filas = m.filas
		if v.seleccionFila >= len(v.filas) {
			v.seleccionFila = max(0, len(v.filas)-1)
		}
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
		v.modo = modoReqsTraza
		return nil

	case tea.KeyMsg:
		return v.manejarTecla(m.String())
	}
	return nil
}

func (v *vistaRequerimientos) manejarTecla(key string) tea.Cmd {
	if v.cargando {
		return nil
	}
	switch v.modo {
	case modoReqsLista:
		switch key {
		case "up", "k":
			if v.seleccionFila > 0 {
				v.seleccionFila--
			}
		case "down", "j":
			if v.seleccionFila < len(v.filas)-1 {
				v.seleccionFila++
			}
		case "r":
			v.cargando = true
			return v.cargarLista()
		case "enter":
			if len(v.filas) > 0 {
				v.modo = modoReqsDetalle
				v.seleccionLinea = 0
			}
		}
	case modoReqsDetalle:
		fila := v.filaSeleccionada()
		switch key {
		case "esc":
			v.modo = modoReqsLista
		case "up", "k":
			if v.seleccionLinea > 0 {
				v.seleccionLinea--
			}
		case "down", "j":
			if fila != nil && v.seleccionLinea < len(fila.Detalles)-1 {
				v.seleccionLinea++
			}
		case "t":
			if fila != nil && v.seleccionLinea < len(fila.Detalles) {
				v.cargando = true
				return v.cargarTraza(fila.Detalles[v.seleccionLinea].ID)
			}
		}
	case modoReqsTraza:
		if key == "esc" || key == "enter" {
			v.modo = modoReqsDetalle
			v.eventos = nil
			v.trazaDe = ""
		}
	}
	return nil
}

func (v *vistaRequerimientos) filaSeleccionada() *dto.RequerimientoResponse {
	if v.seleccionFila >= len(v.filas) {
		return nil
	}
	return &v.filas[v.seleccionFila]
}

func (v *vistaRequerimientos) view() string {
	var cuerpo string
	switch v.modo {
	case modoReqsLista:
		cuerpo = v.renderLista()
	case modoReqsDetalle:
		cuerpo = v.renderDetalle()
	case modoReqsTraza:
		producto := ""
		if fila := v.filaSeleccionada(); fila != nil {
			for _, d := range fila.Detalles {
				if d.ID == v.trazaDe {
					producto = d.Producto
				}
			}
		}
		cuerpo = renderTrazabilidad(producto, v.eventos)
	}

	pie := ""
	if v.cargando {
		pie = estiloStatus.Render("Cargando…")
	} else if v.errMsg != "" {
		pie = estiloError.Render(v.errMsg)
	}
	if pie != "" {
		return cuerpo + "\n\n" + pie
	}
	return cuerpo
}

func (v *vistaRequerimientos) renderLista() string {
	lineas := []string{estiloTitulo.Render("Mis requerimientos"), ""}
	if len(v.filas) == 0 {
		lineas = append(lineas, estiloAyuda.Render("  No hay requerimientos registrados para su mina."))
	}
	for i, fila := range v.filas {
		indicador := "  "
		if i == v.seleccionFila {
			indicador = "> "
		}
		lineas = append(lineas, fmt.Sprintf("%s%-16s %-12s %-10s %s %3d%%",
			indicador, fila.Codigo, fila.Urgencia, fila.Estado,
			barraAvance(fila.Avance, 10), fila.Avance))
	}
	lineas = append(lineas, "", estiloAyuda.Render("enter=detalle  r=refrescar  esc=menu"))
	return strings.Join(lineas, "\n")
}

func (v *vistaRequerimientos) renderDetalle() string {
	fila := v.filaSeleccionada()
	if fila == nil {
		return "Sin requerimiento seleccionado"
	}
	lineas := []string{
		estiloTitulo.Render(fmt.Sprintf("%s · %s · requerido %s", fila.Codigo, fila.Origen, fila.FechaRequerida)),
		fmt.Sprintf("Estado: %s · Avance: %s %d%%", fila.Estado, barraAvance(fila.Avance, 10), fila.Avance),
		"",
	}
	for i, d := range fila.Detalles {
		indicador := "  "
		if i == v.seleccionLinea {
			indicador = "> "
		}
		lineas = append(lineas, fmt.Sprintf("%s%-28s %8s/%-8s %3d%%  %s",
			indicador, recortar(d.Producto, 28),
			d.CantidadAtendida.String(), d.CantidadSolicitada.String(),
			d.Avance, badgeEstado(d.Estado)))
		if i == v.seleccionLinea && d.ComentarioRechazo != "" {
			lineas = append(lineas, estiloAyuda.Render("    rechazo: "+d.ComentarioRechazo))
		}
	}
	lineas = append(lineas, "", estiloAyuda.Render("t=trazabilidad  esc=volver"))
	return strings.Join(lineas, "\n")
}
