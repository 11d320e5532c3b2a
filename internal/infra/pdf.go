package infra

// pdf.go — generación de notas de entrega con go-pdf/fpdf.
// Cada entrega registrada produce una nota en PDF con:
//   - Cabecera con el código del requerimiento y el origen
//   - Tabla de líneas entregadas (producto, lote, cantidad, unidad)
//   - Avance por línea tras la entrega
//   - Observación del despacho y el nombre del almacenero
//
// El archivo se guarda en storagePath/nota_{codigo}_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// GeneradorNotas escribe notas de entrega en un directorio local.
type GeneradorNotas struct {
	storagePath string
}

func NewGeneradorNotas(storagePath string) *GeneradorNotas {
	return &GeneradorNotas{storagePath: storagePath}
}

// NotaDeEntrega genera el PDF de una entrega ya aplicada. req es el
// requerimiento recargado (con cantidades y estados posteriores a la
// entrega); entrega es la solicitud original con las líneas despachadas.
// Devuelve la ruta absoluta del archivo generado.
func (g *GeneradorNotas) NotaDeEntrega(req *dto.RequerimientoResponse, entrega dto.RegistrarEntregaRequest, almacenero string) (string, error) {
	if err := os.MkdirAll(g.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("nota_%s_%d.pdf", req.Codigo, time.Now().Unix())
	filePath := filepath.Join(g.storagePath, fileName)

	// Índice de líneas del requerimiento por id para resolver nombre y avance.
	detalles := make(map[string]*dto.DetalleResponse, len(req.Detalles))
	for i := range req.Detalles {
		detalles[req.Detalles[i].ID] = &req.Detalles[i]
	}

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Cabecera ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Black Silver", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Nota de Entrega de Almacen", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Requerimiento "+req.Codigo, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Origen: "+req.Origen, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Solicitante: "+req.Solicitante, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Fecha de entrega: "+entrega.FechaEntrega, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Tabla de líneas entregadas ───────────────────────────────────────────
	col1 := contentW * 0.40 // producto
	col2 := contentW * 0.22 // lote
	col3 := contentW * 0.22 // cantidad
	col4 := contentW * 0.16 // avance

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Lote", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "Cantidad", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Avance", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, linea := range entrega.Detalles {
		nombre := linea.IDDetalle
		unidad := ""
		avance := ""
		if d, ok := detalles[linea.IDDetalle]; ok {
			nombre = d.Producto
			unidad = " " + d.UnidadMedida
			avance = fmt.Sprintf("%d%%", d.Avance)
		}
		if len(nombre) > 28 {
			nombre = nombre[:27] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, linea.IDLote[:8], "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, linea.Cantidad.String()+unidad, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, avance, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Observación y firma ──────────────────────────────────────────────────
	if entrega.Observacion != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Observacion: "+entrega.Observacion, "", "L", false)
		pdf.Ln(1)
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Entregado por: "+almacenero, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Emitido: "+time.Now().Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
