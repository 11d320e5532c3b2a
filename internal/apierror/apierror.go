// Package apierror define la envoltura de respuesta compartida por el backend
// y el cliente. Toda respuesta del API viaja dentro de Respuesta, de modo que
// el cliente decide únicamente sobre el campo success y muestra el mensaje
// tal cual al operador, sin clasificar errores internos.
package apierror

// Respuesta es la envoltura canónica de toda respuesta JSON del API.
type Respuesta struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Exito envuelve un payload de datos.
func Exito(data interface{}) Respuesta {
	return Respuesta{Success: true, Data: data}
}

// ExitoMensaje envuelve una operación sin payload, solo confirmación.
func ExitoMensaje(msg string) Respuesta {
	return Respuesta{Success: true, Message: msg}
}

// Fallo envuelve un error de negocio o de validación. El mensaje llega tal
// cual al operador, así que nunca debe filtrar detalle interno (trazas,
// errores de almacenamiento).
func Fallo(msg string) Respuesta {
	return Respuesta{Success: false, Error: msg}
}

// ValidationError agrupa errores por campo para respuestas 422.
type ValidationError struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Success: false, Error: "Error de validacion", Fields: fields}
}
