// Package service contiene la lógica de negocio del stub de backend. Aquí
// vive la máquina de estados de atención que el cliente solo renderiza: toda
// regla de transición, descuento de stock y recálculo de estado agregado se
// decide de este lado del contrato REST.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/break-dev/BlackSilver-sub000/internal/config"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Menu(ctx context.Context, rol string) []dto.MenuItem
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	vigencia := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"exp":      time.Now().Add(vigencia).Unix(),
		"iat":      time.Now().Unix(),
	}
	if user.AlmacenID != nil {
		claims["id_almacen"] = user.AlmacenID.String()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User: dto.UsuarioResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Nombre:   user.Nombre,
			Rol:      user.Rol,
		},
	}
	if user.AlmacenID != nil {
		id := user.AlmacenID.String()
		resp.User.AlmacenID = &id
	}
	if user.MinaID != nil {
		id := user.MinaID.String()
		resp.User.MinaID = &id
	}
	return resp, nil
}

// Menu arma el árbol de navegación según el rol. El cliente lo cachea tal
// cual; el orden y los títulos son contrato de presentación, no de negocio.
func (s *authService) Menu(_ context.Context, rol string) []dto.MenuItem {
	var items []dto.MenuItem
	if rol == model.RolSolicitante || rol == model.RolAdministrador {
		items = append(items, dto.MenuItem{
			Titulo: "Requerimientos",
			Ruta:   "/requerimientos",
			Icono:  "clipboard",
			Hijos: []dto.MenuItem{
				{Titulo: "Mis requerimientos", Ruta: "/requerimientos/lista"},
				{Titulo: "Nuevo requerimiento", Ruta: "/requerimientos/crear"},
			},
		})
	}
	if rol == model.RolAlmacenero || rol == model.RolAdministrador {
		items = append(items, dto.MenuItem{
			Titulo: "Atencion de almacen",
			Ruta:   "/atencion",
			Icono:  "warehouse",
			Hijos: []dto.MenuItem{
				{Titulo: "Pendientes", Ruta: "/atencion/pendientes"},
			},
		})
	}
	return items
}
