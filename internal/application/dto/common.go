package dto

// ErrorResponse cuerpo de error HTTP. Redirect indica la ruta a la que el cliente
// debe volver cuando el acceso es denegado.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
