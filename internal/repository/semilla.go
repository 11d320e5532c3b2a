package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/break-dev/BlackSilver-sub000/internal/model"
)

// Semilla agrupa los repositorios poblados con el juego de datos de
// desarrollo: una cadena empresa → mina → almacén, productos con lotes y un
// requerimiento pendiente de atención. La usan cmd/stubserver y los tests de
// integración del cliente.
type Semilla struct {
	Usuarios       UsuarioRepository
	Requerimientos RequerimientoRepository
	Lotes          LoteRepository
	Catalogo       CatalogoRepository

	Mina          model.Mina
	Almacen       model.Almacen
	Productos     []model.Producto
	Requerimiento model.Requerimiento

	// Credenciales sembradas (username → password en claro, solo para dev).
	Credenciales map[string]string
}

// Sembrar construye repositorios en memoria con el fixture completo.
func Sembrar(ctx context.Context) (*Semilla, error) {
	s := &Semilla{
		Usuarios:       NewUsuarioRepository(),
		Requerimientos: NewRequerimientoRepository(),
		Lotes:          NewLoteRepository(),
		Catalogo:       NewCatalogoRepository(),
		Credenciales: map[string]string{
			"admin":        "admin123",
			"solicitante1": "mina123",
			"almacenero1":  "almacen123",
		},
	}
	ahora := time.Now()

	empresa := model.Empresa{ID: uuid.New(), RUC: "20512345678", Nombre: "Minera Plata Negra SAC", Activo: true}
	s.Mina = model.Mina{ID: uuid.New(), EmpresaID: empresa.ID, Nombre: "Mina Esperanza", Ubicacion: "Pasco", Activo: true}
	if err := s.Catalogo.CrearMina(ctx, &s.Mina); err != nil {
		return nil, err
	}
	s.Almacen = model.Almacen{ID: uuid.New(), MinaID: s.Mina.ID, Nombre: "Almacen Central Esperanza", Activo: true}
	if err := s.Catalogo.CrearAlmacen(ctx, &s.Almacen); err != nil {
		return nil, err
	}

	s.Productos = []model.Producto{
		{ID: uuid.New(), Codigo: "EXP-001", Nombre: "Dinamita 65%", Categoria: "Explosivos", UnidadMedida: "caja", EsFiscalizado: true, Activo: true},
		{ID: uuid.New(), Codigo: "CON-010", Nombre: "Cemento Portland Tipo I", Categoria: "Construccion", UnidadMedida: "bolsa", Activo: true},
		{ID: uuid.New(), Codigo: "LUB-104", Nombre: "Aceite hidraulico ISO 68", Categoria: "Lubricantes", UnidadMedida: "balde", EsPerecible: true, Activo: true},
	}
	for i := range s.Productos {
		if err := s.Catalogo.CrearProducto(ctx, &s.Productos[i]); err != nil {
			return nil, err
		}
	}

	venc1 := ahora.AddDate(0, 6, 0)
	venc2 := ahora.AddDate(0, 1, 0)
	lotes := []model.Lote{
		{Codigo: "L-2026-001", ProductoID: s.Productos[0].ID, AlmacenID: s.Almacen.ID, StockActual: decimal.NewFromInt(5), UnidadMedida: "caja", FechaIngreso: ahora.AddDate(0, -2, 0), FechaVencimiento: &venc1},
		{Codigo: "L-2026-014", ProductoID: s.Productos[0].ID, AlmacenID: s.Almacen.ID, StockActual: decimal.NewFromInt(8), UnidadMedida: "caja", FechaIngreso: ahora.AddDate(0, -1, 0), FechaVencimiento: &venc2},
		{Codigo: "L-2026-021", ProductoID: s.Productos[1].ID, AlmacenID: s.Almacen.ID, StockActual: decimal.NewFromInt(200), UnidadMedida: "bolsa", FechaIngreso: ahora.AddDate(0, -1, -15)},
		{Codigo: "L-2026-030", ProductoID: s.Productos[2].ID, AlmacenID: s.Almacen.ID, StockActual: decimal.NewFromInt(12), UnidadMedida: "balde", FechaIngreso: ahora.AddDate(0, 0, -20), FechaVencimiento: &venc2},
	}
	for i := range lotes {
		if err := s.Lotes.Create(ctx, &lotes[i]); err != nil {
			return nil, err
		}
	}

	solicitanteID := uuid.New()
	usuarios := []model.Usuario{
		{ID: uuid.New(), Username: "admin", Nombre: "Administrador General", Rol: model.RolAdministrador, Activo: true},
		{ID: solicitanteID, Username: "solicitante1", Nombre: "Juan Quispe", Rol: model.RolSolicitante, MinaID: &s.Mina.ID, Activo: true},
		{ID: uuid.New(), Username: "almacenero1", Nombre: "Rosa Mamani", Rol: model.RolAlmacenero, AlmacenID: &s.Almacen.ID, Activo: true},
	}
	for i := range usuarios {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Credenciales[usuarios[i].Username]), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("semilla: hash de %s: %w", usuarios[i].Username, err)
		}
		usuarios[i].PasswordHash = string(hash)
		usuarios[i].CreatedAt = ahora
		if err := s.Usuarios.Create(ctx, &usuarios[i]); err != nil {
			return nil, err
		}
	}

	s.Requerimiento = model.Requerimiento{
		ID:             uuid.New(),
		Codigo:         s.Requerimientos.SiguienteCodigo(ctx),
		SolicitanteID:  solicitanteID,
		Solicitante:    "Juan Quispe",
		MinaID:         s.Mina.ID,
		OrigenNombre:   s.Mina.Nombre,
		AlmacenID:      s.Almacen.ID,
		AlmacenNombre:  s.Almacen.Nombre,
		Urgencia:       model.UrgenciaUrgente,
		FechaRequerida: ahora.AddDate(0, 0, 7),
		Estado:         model.RequerimientoGenerado,
		CreatedAt:      ahora,
		Detalles: []model.RequerimientoDetalle{
			{
				ID:                 uuid.New(),
				ProductoID:         s.Productos[0].ID,
				ProductoNombre:     s.Productos[0].Nombre,
				CantidadSolicitada: decimal.NewFromInt(10),
				UnidadMedida:       "caja",
				EsFiscalizado:      true,
				Comentario:         "Frente de avance nivel 1850",
				Estado:             model.DetallePendiente,
			},
			{
				ID:                 uuid.New(),
				ProductoID:         s.Productos[1].ID,
				ProductoNombre:     s.Productos[1].Nombre,
				CantidadSolicitada: decimal.NewFromInt(50),
				UnidadMedida:       "bolsa",
				Estado:             model.DetallePendiente,
			},
		},
	}
	if err := s.Requerimientos.Create(ctx, &s.Requerimiento); err != nil {
		return nil, err
	}
	for _, d := range s.Requerimiento.Detalles {
		evento := model.EventoTrazabilidad{
			DetalleID: d.ID,
			Glosa:     "Requerimiento generado",
			Estado:    model.DetallePendiente,
			Usuario:   "Juan Quispe",
			Fecha:     ahora,
		}
		if err := s.Requerimientos.AgregarEvento(ctx, &evento); err != nil {
			return nil, err
		}
	}
	return s, nil
}
