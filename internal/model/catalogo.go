package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de catálogo que el cliente consume para selects y cabeceras.
// El backend es dueño del CRUD completo; aquí solo viajan los campos que las
// pantallas necesitan mostrar.

type Empresa struct {
	ID     uuid.UUID
	RUC    string
	Nombre string
	Activo bool
}

// Mina es una unidad de producción dentro de una concesión.
type Mina struct {
	ID        uuid.UUID
	EmpresaID uuid.UUID
	Nombre    string
	Ubicacion string
	Activo    bool
}

type Almacen struct {
	ID     uuid.UUID
	MinaID uuid.UUID
	Nombre string
	Activo bool
}

type Producto struct {
	ID            uuid.UUID
	Codigo        string
	Nombre        string
	Categoria     string
	UnidadMedida  string
	EsFiscalizado bool
	EsPerecible   bool
	Activo        bool
	CreatedAt     time.Time
}
