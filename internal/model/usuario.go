package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles conocidos por el cliente. El servidor autoriza; el cliente solo
// decide qué pantallas ofrecer en el menú.
const (
	RolAdministrador = "administrador"
	RolSolicitante   = "solicitante"
	RolAlmacenero    = "almacenero"
)

type Usuario struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Nombre       string
	Rol          string
	AlmacenID    *uuid.UUID // almacén asignado cuando Rol == almacenero
	MinaID       *uuid.UUID // mina asignada cuando Rol == solicitante
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
