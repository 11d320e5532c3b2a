// Package api implementa el cliente HTTP contra el backend de Black Silver.
// Todo viaja como JSON dentro de la envoltura {success, data, message/error};
// el cliente decide únicamente sobre success y propaga el mensaje del
// servidor sin reinterpretarlo. Ninguna llamada se reintenta: un fallo es
// terminal para esa acción del operador.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrSesionExpirada señala una respuesta 401: el token ya no sirve y el
// cliente debe volver a la pantalla de login descartando el contexto en vuelo.
var ErrSesionExpirada = errors.New("sesion expirada")

// ErrNegocio es un rechazo de regla de negocio del backend (success=false).
// El mensaje se muestra tal cual al operador.
type ErrNegocio struct {
	Mensaje string
}

func (e *ErrNegocio) Error() string { return e.Mensaje }

// EsErrNegocio reporta si err envuelve un rechazo de negocio.
func EsErrNegocio(err error) bool {
	var en *ErrNegocio
	return errors.As(err, &en)
}

// TokenProvider entrega el bearer token vigente antes de cada request.
// Lo implementa el store de sesión; devolver cadena vacía emite el request
// sin cabecera de autorización (solo login).
type TokenProvider func() string

// Client es el cliente REST del backend. Una instancia por proceso.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenProvider
}

func NewClient(baseURL string, timeout time.Duration, token TokenProvider) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

// envoltura espeja apierror.Respuesta con data cruda para decodificar en dos
// pasos.
type envoltura struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do emite un request y decodifica la envoltura. out puede ser nil cuando la
// operación no devuelve payload.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tok := c.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: backend inalcanzable: %w", err)
	}
	defer resp.Body.Close()

	// Un 401 con token adjunto es una sesión muerta. Sin token (el login
	// mismo, por ejemplo) el mensaje del servidor llega en la envoltura.
	if resp.StatusCode == http.StatusUnauthorized && tok != "" {
		return ErrSesionExpirada
	}

	var env envoltura
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("api: respuesta ilegible (%d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("el servidor respondio %d sin detalle", resp.StatusCode)
		}
		return &ErrNegocio{Mensaje: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: decodificar data: %w", err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}
