package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/break-dev/BlackSilver-sub000/internal/atencion"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// vistaEntrega es el formulario de entrega de UNA línea: una fila por lote
// disponible, cantidad editable por fila y saldo proyectado en vivo. El envío
// (ctrl+s, manejado por la vista padre) queda deshabilitado mientras el total
// asignado sea cero.
type vistaEntrega struct {
	asig        *atencion.AsignacionLotes
	linea       dto.DetalleResponse
	seleccion   int
	cantidad    textinput.Model
	observacion textinput.Model
	focoObs     bool
	errMsg      string
}

func nuevaVistaEntrega(idRequerimiento string, linea dto.DetalleResponse, lotes []dto.LoteResponse) *vistaEntrega {
	cantidad := textinput.New()
	cantidad.Placeholder = "0"
	cantidad.CharLimit = 12
	cantidad.Focus()

	observacion := textinput.New()
	observacion.Placeholder = "observacion del despacho (opcional)"
	observacion.CharLimit = 200

	return &vistaEntrega{
		asig:        atencion.NuevaAsignacion(idRequerimiento, linea.ID, lotes),
		linea:       linea,
		cantidad:    cantidad,
		observacion: observacion,
	}
}

func (e *vistaEntrega) manejarTecla(msg tea.KeyMsg) tea.Cmd {
	lotes := e.asig.Lotes()
	switch msg.String() {
	case "tab":
		e.focoObs = !e.focoObs
		if e.focoObs {
			e.cantidad.Blur()
			e.observacion.Focus()
		} else {
			e.observacion.Blur()
			e.cantidad.Focus()
		}
		return nil
	case "up", "shift+tab":
		if !e.focoObs && e.seleccion > 0 {
			e.aplicarCantidad()
			e.seleccion--
			e.mostrarCantidad()
		}
		return nil
	case "down":
		if !e.focoObs && e.seleccion < len(lotes)-1 {
			e.aplicarCantidad()
			e.seleccion++
			e.mostrarCantidad()
		}
		return nil
	case "enter":
		if !e.focoObs {
			e.aplicarCantidad()
		}
		return nil
	}

	var cmd tea.Cmd
	if e.focoObs {
		e.observacion, cmd = e.observacion.Update(msg)
	} else {
		e.cantidad, cmd = e.cantidad.Update(msg)
		// Aplicar en vivo para que el saldo proyectado reaccione al tipeo.
		e.aplicarCantidad()
	}
	return cmd
}

// aplicarCantidad parsea el campo y lo fija en la asignación. Un valor
// ilegible cuenta como cero; la asignación acota a [0, stock].
func (e *vistaEntrega) aplicarCantidad() {
	lotes := e.asig.Lotes()
	if e.seleccion >= len(lotes) {
		return
	}
	texto := strings.TrimSpace(e.cantidad.Value())
	valor := decimal.Zero
	if texto != "" {
		parseado, err := decimal.NewFromString(texto)
		if err != nil {
			e.errMsg = "Cantidad ilegible: " + texto
			return
		}
		valor = parseado
	}
	e.errMsg = ""
	_ = e.asig.Asignar(lotes[e.seleccion].ID, valor)
}

// mostrarCantidad refleja en el campo lo ya asignado al lote seleccionado.
func (e *vistaEntrega) mostrarCantidad() {
	lotes := e.asig.Lotes()
	if e.seleccion >= len(lotes) {
		return
	}
	actual := e.asig.Cantidad(lotes[e.seleccion].ID)
	if actual.IsZero() {
		e.cantidad.SetValue("")
		return
	}
	e.cantidad.SetValue(actual.String())
}

func (e *vistaEntrega) render() string {
	pendiente := e.linea.CantidadSolicitada.Sub(e.linea.CantidadAtendida)
	lineas := []string{
		estiloTitulo.Render("Registrar entrega · " + e.linea.Producto),
		fmt.Sprintf("Solicitado %s %s · atendido %s · pendiente %s",
			e.linea.CantidadSolicitada, e.linea.UnidadMedida,
			e.linea.CantidadAtendida, pendiente),
		"",
		fmt.Sprintf("  %-14s %10s %12s %12s  %s", "Lote", "Stock", "Asignado", "Saldo", "Vencimiento"),
	}
	for i, lote := range e.asig.Lotes() {
		indicador := "  "
		campo := e.asig.Cantidad(lote.ID).String()
		if i == e.seleccion && !e.focoObs {
			indicador = "> "
			campo = e.cantidad.View()
		}
		venc := "-"
		if lote.FechaVencimiento != nil {
			venc = *lote.FechaVencimiento
			if lote.DiasParaVencer != nil {
				venc += fmt.Sprintf(" (%d dias)", *lote.DiasParaVencer)
			}
		}
		lineas = append(lineas, fmt.Sprintf("%s%-14s %10s %12s %12s  %s",
			indicador, lote.Codigo, lote.StockActual, campo,
			e.asig.SaldoProyectado(lote.ID), venc))
	}

	lineas = append(lineas, "", fmt.Sprintf("Total a entregar: %s %s", e.asig.Total(), e.linea.UnidadMedida))
	lineas = append(lineas, "Observacion: "+e.observacion.View())

	envio := "ctrl+s=registrar entrega"
	if !e.asig.Valida() {
		envio = estiloAyuda.Render("ctrl+s deshabilitado: total en cero")
	}
	lineas = append(lineas, "", envio+"  tab=observacion  esc=cancelar")
	if e.errMsg != "" {
		lineas = append(lineas, estiloError.Render(e.errMsg))
	}
	return strings.Join(lineas, "\n")
}
