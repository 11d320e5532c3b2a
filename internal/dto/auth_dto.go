package dto

// ─── Request DTOs ─────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

// ─── Response DTOs ────────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}

type UsuarioResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Nombre    string  `json:"nombre"`
	Rol       string  `json:"rol"`
	AlmacenID *string `json:"id_almacen,omitempty"`
	MinaID    *string `json:"id_mina,omitempty"`
}
