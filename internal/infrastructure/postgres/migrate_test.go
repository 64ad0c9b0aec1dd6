package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_OrdenYContenido(t *testing.T) {
	names, err := MigrationFiles()
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, "migrations/001_schema.sql", names[0])
	assert.Equal(t, "migrations/003_movimientos_inventario.sql", names[2])

	schema, err := migrationsFS.ReadFile(names[0])
	require.NoError(t, err)
	assert.Contains(t, string(schema), "UNIQUE (producto_id, ingrediente_id)")
	assert.Contains(t, string(schema), "CHECK (inventario >= 0)")

	views, err := migrationsFS.ReadFile(names[1])
	require.NoError(t, err)
	for _, v := range []string{"v_calorias_producto", "v_rentabilidad_producto"} {
		assert.True(t, strings.Contains(string(views), v), v)
	}
}
