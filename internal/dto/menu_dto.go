package dto

// MenuItem es un nodo del árbol de navegación que el backend arma según el
// rol del usuario. El cliente lo cachea localmente y lo reconstruye en cada
// login o refresco manual.
type MenuItem struct {
	Titulo string     `json:"titulo"`
	Ruta   string     `json:"ruta"`
	Icono  string     `json:"icono,omitempty"`
	Hijos  []MenuItem `json:"hijos,omitempty"`
}
