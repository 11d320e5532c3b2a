package tui

import (
	"fmt"
	"strings"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// renderTrazabilidad dibuja la línea de tiempo de una línea de requerimiento,
// del evento más reciente al más antiguo tal como llega del servidor. Una
// línea sin eventos muestra un estado vacío explícito en lugar de un panel
// en blanco.
func renderTrazabilidad(producto string, eventos []dto.EventoTrazabilidadResponse) string {
	titulo := "Trazabilidad"
	if producto != "" {
		titulo += " · " + producto
	}
	lineas := []string{estiloTitulo.Render(titulo), ""}

	if len(eventos) == 0 {
		lineas = append(lineas, estiloAyuda.Render("  Sin eventos registrados para esta linea."))
		lineas = append(lineas, "", estiloAyuda.Render("esc=volver"))
		return strings.Join(lineas, "\n")
	}

	for i, e := range eventos {
		estilo := estiloEstado(e.Estado)
		conector := "│"
		if i == len(eventos)-1 {
			conector = " "
		}
		lineas = append(lineas,
			fmt.Sprintf("  %s %s", estilo.Render(iconoEstado(e.Estado)), e.Glosa),
			fmt.Sprintf("  %s   %s · %s · %s", conector, estilo.Render(e.Estado), e.Usuario, e.Fecha),
		)
	}
	lineas = append(lineas, "", estiloAyuda.Render("esc=volver"))
	return strings.Join(lineas, "\n")
}
