package dto

import "encoding/json"

// EditorSaveRequest envío del formulario compartido del editor por pestañas.
// ID nil = alta; ID presente = edición. Form se decodifica según el esquema de la pestaña.
type EditorSaveRequest struct {
	ID   *int64          `json:"id"`
	Form json.RawMessage `json:"form"`
}

// EditorTableResponse contenido completo de la pestaña después de cada operación.
type EditorTableResponse struct {
	Tab   string `json:"tab"`
	Items any    `json:"items"`
	Total int    `json:"total"`
}
