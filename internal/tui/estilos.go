package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

var (
	estiloTitulo = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0C0C0"))
	estiloStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	estiloError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	estiloAyuda  = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	estiloPanel  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	badgePendiente   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	badgeAprobacion  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	badgeDespacho    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4")).Bold(true)
	badgeCompletado  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	badgeRechazado   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	badgeCerrado     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	badgeDesconocido = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
)

// badgeEstado devuelve la etiqueta coloreada de un estado de línea. Un estado
// fuera del conjunto conocido se muestra tal cual en gris: dato corrupto del
// servidor, pero no un motivo para romper la vista.
func badgeEstado(estado string) string {
	switch model.EstadoDetalle(estado) {
	case model.DetallePendiente:
		return badgePendiente.Render("Pendiente")
	case model.DetalleAprobacionLogistica:
		return badgeAprobacion.Render("Aprobado log.")
	case model.DetalleDespachoIniciado:
		return badgeDespacho.Render("En despacho")
	case model.DetalleCompletado:
		return badgeCompletado.Render("Completado")
	case model.DetalleRechazadoLogistica:
		return badgeRechazado.Render("Rechazado")
	case model.DetalleCerrado:
		return badgeCerrado.Render("Cerrado")
	}
	return badgeDesconocido.Render(estado)
}

// iconoEstado es el glifo que encabeza cada evento de trazabilidad.
func iconoEstado(estado string) string {
	switch model.EstadoDetalle(estado) {
	case model.DetalleCompletado:
		return "✔"
	case model.DetalleRechazadoLogistica:
		return "✖"
	case model.DetalleCerrado:
		return "◌"
	case model.DetalleDespachoIniciado:
		return "▸"
	default:
		return "●"
	}
}

// estiloEstado devuelve el estilo del estado para colorear iconos y textos de
// la línea de tiempo.
func estiloEstado(estado string) lipgloss.Style {
	switch model.EstadoDetalle(estado) {
	case model.DetallePendiente:
		return badgePendiente
	case model.DetalleAprobacionLogistica:
		return badgeAprobacion
	case model.DetalleDespachoIniciado:
		return badgeDespacho
	case model.DetalleCompletado:
		return badgeCompletado
	case model.DetalleRechazadoLogistica:
		return badgeRechazado
	case model.DetalleCerrado:
		return badgeCerrado
	}
	return badgeDesconocido
}

// barraAvance dibuja una barra de progreso textual de ancho fijo.
func barraAvance(avance int, ancho int) string {
	if ancho <= 0 {
		ancho = 10
	}
	if avance < 0 {
		avance = 0
	}
	if avance > 100 {
		avance = 100
	}
	llenos := avance * ancho / 100
	vacios := ancho - llenos
	barra := ""
	for i := 0; i < llenos; i++ {
		barra += "█"
	}
	for i := 0; i < vacios; i++ {
		barra += "░"
	}
	return barra
}
