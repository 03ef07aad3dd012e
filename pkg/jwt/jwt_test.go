package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/invoice-builder-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "c-1", "accountant", "invoice-builder", 5)
	require.NoError(t, err)

	userID, companyID, role, err := pkgjwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "c-1", companyID)
	assert.Equal(t, "accountant", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "c-1", "admin", "invoice-builder", 5)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "u-1", "c-1", "admin", "invoice-builder", -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "c-1", "admin", "x", 5)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, _, _, err = pkgjwt.Parse("", "abc")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestGenerate_SinUsuarioOEmpresa(t *testing.T) {
	_, err := pkgjwt.Generate("secreto", "", "c-1", "admin", "x", 5)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidClaims)
}
