package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
)

func TestParseListQuery_Defaults(t *testing.T) {
	q, err := dto.ParseListQuery("", "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.Active)
	assert.Empty(t, q.PrimaryCountry)
}

func TestParseListQuery_ValoresExplicitos(t *testing.T) {
	q, err := dto.ParseListQuery("3", "25", "andino", "true", "UY")
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, "andino", q.Search)
	require.NotNil(t, q.Active)
	assert.True(t, *q.Active)
	assert.Equal(t, "UY", q.PrimaryCountry)
}

func TestParseListQuery_ActiveFalse(t *testing.T) {
	q, err := dto.ParseListQuery("", "", "", "false", "")
	require.NoError(t, err)
	require.NotNil(t, q.Active)
	assert.False(t, *q.Active)
}

func TestParseListQuery_ActiveNoBooleanoSeIgnora(t *testing.T) {
	// Cualquier valor distinto de true/false no filtra por estado.
	q, err := dto.ParseListQuery("", "", "", "si", "")
	require.NoError(t, err)
	assert.Nil(t, q.Active)
}

func TestParseListQuery_Invalidos(t *testing.T) {
	cases := []struct {
		name  string
		page  string
		limit string
		pais  string
		campo string
	}{
		{"page no numérico", "abc", "", "", "page"},
		{"page cero", "0", "", "", "page"},
		{"page negativo", "-1", "", "", "page"},
		{"limit cero", "", "0", "", "limit"},
		{"limit sobre el máximo", "", "101", "", "limit"},
		{"limit no numérico", "", "diez", "", "limit"},
		{"país fuera del catálogo", "", "", "XX", "paisPrincipal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dto.ParseListQuery(tc.page, tc.limit, "", "", tc.pais)
			require.Error(t, err)

			var appErr *domain.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, domain.CodeValidation, appErr.Code)
			assert.Contains(t, appErr.Details, tc.campo)
		})
	}
}

func TestParseListQuery_AcumulaViolaciones(t *testing.T) {
	_, err := dto.ParseListQuery("x", "999", "", "", "ZZ")
	require.Error(t, err)

	var appErr *domain.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 3)
}

func TestParseID(t *testing.T) {
	id, err := dto.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "-1", "4.5", "", "1e3", " 7"} {
		_, err := dto.ParseID(raw)
		require.Error(t, err, "debe rechazar %q", raw)

		var appErr *domain.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Details, "id")
	}
}
