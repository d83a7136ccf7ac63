package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secret-de-pruebas"

func TestGenerateYParse(t *testing.T) {
	token, err := Generate(secret, "uid-1", "a@x.com", "doctor", "breathtech", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, role, err := Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", userID)
	assert.Equal(t, "a@x.com", email)
	assert.Equal(t, "doctor", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "uid-1", "a@x.com", "patient", "breathtech", 60)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate(secret, "uid-1", "a@x.com", "patient", "breathtech", 60)
	require.NoError(t, err)

	_, _, _, err = Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate(secret, "uid-1", "a@x.com", "patient", "breathtech", -1)
	require.NoError(t, err)

	_, _, _, err = Parse(secret, token)
	assert.Error(t, err)
}

func TestParse_TokenManipulado(t *testing.T) {
	token, err := Generate(secret, "uid-1", "a@x.com", "patient", "breathtech", 60)
	require.NoError(t, err)

	_, _, _, err = Parse(secret, token+"x")
	assert.Error(t, err)
}
