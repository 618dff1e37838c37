package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/contable-pro/internal/domain/repository"
)

func TestBuildGroupFilters_SinFiltros(t *testing.T) {
	where, args := buildGroupFilters(repository.GroupFilters{Page: 1, Limit: 10})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildGroupFilters_Busqueda(t *testing.T) {
	where, args := buildGroupFilters(repository.GroupFilters{Search: "andino"})
	assert.Equal(t, " WHERE (g.nombre ILIKE $1 OR g.rut_controlante ILIKE $1)", where)
	require.Len(t, args, 1)
	assert.Equal(t, "%andino%", args[0])
}

func TestBuildGroupFilters_Combinados(t *testing.T) {
	activo := true
	where, args := buildGroupFilters(repository.GroupFilters{
		Search:         "sa",
		Active:         &activo,
		PrimaryCountry: "UY",
	})
	// Los placeholders se numeran en el orden de los argumentos.
	assert.Equal(t, " WHERE (g.nombre ILIKE $1 OR g.rut_controlante ILIKE $1) AND g.activo = $2 AND g.pais_principal = $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, "%sa%", args[0])
	assert.Equal(t, true, args[1])
	assert.Equal(t, "UY", args[2])
}

func TestBuildGroupFilters_SoloEstado(t *testing.T) {
	inactivo := false
	where, args := buildGroupFilters(repository.GroupFilters{Active: &inactivo})
	assert.Equal(t, " WHERE g.activo = $1", where)
	require.Len(t, args, 1)
	assert.Equal(t, false, args[0])
}
