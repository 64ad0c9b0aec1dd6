package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Heladeria-api/pkg/validation"
)

type form struct {
	Name  string `json:"nombre" validate:"required"`
	Email string `json:"correo" validate:"required,email"`
	Qty   int    `json:"cantidad" validate:"min=1"`
	Role  string `json:"rol" validate:"oneof=admin cliente"`
}

func TestStruct_MensajesConNombreJSON(t *testing.T) {
	v := validation.New()
	err := v.Struct(form{Email: "no-es-correo", Qty: 0, Role: "otro"})
	require.Error(t, err)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, err.Error(), "nombre es requerido")
	assert.Contains(t, err.Error(), "correo debe ser un correo válido")
	assert.Contains(t, err.Error(), "cantidad debe ser al menos 1")
	assert.Contains(t, err.Error(), "rol debe ser uno de: admin cliente")
}

func TestStruct_Valido(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Struct(form{Name: "x", Email: "a@b.co", Qty: 2, Role: "admin"}))
}
