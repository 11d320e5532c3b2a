package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/break-dev/BlackSilver-sub000/internal/config"
	"github.com/break-dev/BlackSilver-sub000/internal/dto"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
)

func nuevoAuth(t *testing.T) (AuthService, *repository.Semilla, *config.Config) {
	t.Helper()
	semilla, err := repository.Sembrar(context.Background())
	require.NoError(t, err)
	cfg := &config.Config{JWTSecret: "secreto-de-test", JWTExpirationHours: 8}
	return NewAuthService(semilla.Usuarios, cfg), semilla, cfg
}

func TestLoginEmiteTokenConClaims(t *testing.T) {
	svc, semilla, cfg := nuevoAuth(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "almacenero1",
		Password: semilla.Credenciales["almacenero1"],
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAlmacenero, resp.User.Rol)
	require.NotNil(t, resp.User.AlmacenID)
	assert.Equal(t, semilla.Almacen.ID.String(), *resp.User.AlmacenID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "almacenero1", claims["username"])
	assert.Equal(t, model.RolAlmacenero, claims["rol"])
	assert.Equal(t, semilla.Almacen.ID.String(), claims["id_almacen"])
}

func TestLoginSolicitanteExponeSuMina(t *testing.T) {
	svc, semilla, _ := nuevoAuth(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "solicitante1",
		Password: semilla.Credenciales["solicitante1"],
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.MinaID)
	assert.Equal(t, semilla.Mina.ID.String(), *resp.User.MinaID)
	assert.Nil(t, resp.User.AlmacenID)
}

func TestLoginRechazaCredencialesInvalidas(t *testing.T) {
	svc, _, _ := nuevoAuth(t)

	// Misma respuesta para usuario inexistente y contraseña incorrecta: el
	// login no revela cuál de los dos falló.
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "fantasma", Password: "x"})
	assert.EqualError(t, err, "credenciales invalidas")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "almacenero1", Password: "incorrecta"})
	assert.EqualError(t, err, "credenciales invalidas")
}

func TestMenuPorRol(t *testing.T) {
	svc, _, _ := nuevoAuth(t)
	ctx := context.Background()

	rutas := func(items []dto.MenuItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Ruta)
		}
		return out
	}

	assert.Equal(t, []string{"/requerimientos"}, rutas(svc.Menu(ctx, model.RolSolicitante)))
	assert.Equal(t, []string{"/atencion"}, rutas(svc.Menu(ctx, model.RolAlmacenero)))
	assert.Equal(t, []string{"/requerimientos", "/atencion"}, rutas(svc.Menu(ctx, model.RolAdministrador)))
	assert.Empty(t, svc.Menu(ctx, "desconocido"))
}
