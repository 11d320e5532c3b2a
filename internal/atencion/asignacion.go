package atencion

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// AsignacionLotes reparte la cantidad a entregar de UNA línea entre los lotes
// disponibles del producto en el almacén. El operador elige los lotes a mano
// (por ejemplo FIFO por vencimiento entre dos partidas); el cliente no
// implementa asignación automática.
//
// La cota por lote [0, stock_actual] es solo un máximo de entrada de UI; la
// validación autoritativa vive en el servidor.
type AsignacionLotes struct {
	idRequerimiento string
	idDetalle       string
	lotes           []dto.LoteResponse
	cantidades      map[string]decimal.Decimal
}

func NuevaAsignacion(idRequerimiento, idDetalle string, lotes []dto.LoteResponse) *AsignacionLotes {
	return &AsignacionLotes{
		idRequerimiento: idRequerimiento,
		idDetalle:       idDetalle,
		lotes:           lotes,
		cantidades:      make(map[string]decimal.Decimal),
	}
}

// Lotes devuelve los lotes tal como llegaron del servidor.
func (a *AsignacionLotes) Lotes() []dto.LoteResponse { return a.lotes }

// Asignar fija la cantidad a sacar de un lote, acotada a [0, stock_actual].
func (a *AsignacionLotes) Asignar(idLote string, cantidad decimal.Decimal) error {
	lote, ok := a.buscar(idLote)
	if !ok {
		return fmt.Errorf("lote %s no pertenece a esta asignacion", idLote)
	}
	if cantidad.IsNegative() {
		cantidad = decimal.Zero
	}
	if cantidad.GreaterThan(lote.StockActual) {
		cantidad = lote.StockActual
	}
	a.cantidades[idLote] = cantidad
	return nil
}

// Cantidad devuelve lo asignado a un lote (cero si no se tocó).
func (a *AsignacionLotes) Cantidad(idLote string) decimal.Decimal {
	return a.cantidades[idLote]
}

// SaldoProyectado es stock_actual menos lo asignado, mostrado en vivo como
// referencia para el operador. No es autoritativo.
func (a *AsignacionLotes) SaldoProyectado(idLote string) decimal.Decimal {
	lote, ok := a.buscar(idLote)
	if !ok {
		return decimal.Zero
	}
	return lote.StockActual.Sub(a.cantidades[idLote])
}

// Total suma todo lo asignado.
func (a *AsignacionLotes) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.cantidades {
		total = total.Add(c)
	}
	return total
}

// Valida reporta si la entrega puede enviarse: el total debe ser mayor que
// cero. Mientras sea falso la vista mantiene deshabilitado el envío.
func (a *AsignacionLotes) Valida() bool {
	return a.Total().GreaterThan(decimal.Zero)
}

// Lineas emite los pares (lote, cantidad) con cantidad distinta de cero, en
// el orden en que el servidor listó los lotes.
func (a *AsignacionLotes) Lineas() []dto.EntregaLoteRequest {
	var lineas []dto.EntregaLoteRequest
	for _, lote := range a.lotes {
		c := a.cantidades[lote.ID]
		if c.IsZero() {
			continue
		}
		lineas = append(lineas, dto.EntregaLoteRequest{
			IDDetalle: a.idDetalle,
			IDLote:    lote.ID,
			Cantidad:  c,
		})
	}
	return lineas
}

// Solicitud arma el request compuesto de entrega.
func (a *AsignacionLotes) Solicitud(observacion string, ahora time.Time) dto.RegistrarEntregaRequest {
	return dto.RegistrarEntregaRequest{
		IDRequerimiento: a.idRequerimiento,
		FechaEntrega:    ahora.Format(time.RFC3339),
		Observacion:     observacion,
		Detalles:        a.Lineas(),
	}
}

func (a *AsignacionLotes) buscar(idLote string) (dto.LoteResponse, bool) {
	for _, l := range a.lotes {
		if l.ID == idLote {
			return l, true
		}
	}
	return dto.LoteResponse{}, false
}
