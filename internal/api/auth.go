package api

import (
	"context"

	"github.com/break-dev/BlackSilver-sub000/internal/dto"
)

// Login autentica al usuario. Es la única llamada que viaja sin token.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ObtenerMenu trae el árbol de navegación para el rol del usuario autenticado.
func (c *Client) ObtenerMenu(ctx context.Context) ([]dto.MenuItem, error) {
	var menu []dto.MenuItem
	if err := c.get(ctx, "/auth/menu", nil, &menu); err != nil {
		return nil, err
	}
	return menu, nil
}
