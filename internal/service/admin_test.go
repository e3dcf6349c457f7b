package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminGate_Login(t *testing.T) {
	gate := NewAdminGate(StaticPassphrase("252525"))
	gate.OpenPrompt()

	for i := 0; i < 3; i++ {
		err := gate.Login("123456")
		assert.ErrorIs(t, err, ErrInvalidPassphrase)
		assert.False(t, gate.IsAdmin())
		assert.True(t, gate.PromptOpen())
	}

	assert.NoError(t, gate.Login("252525"))
	assert.True(t, gate.IsAdmin())
	assert.False(t, gate.PromptOpen())

	gate.Logout()
	assert.False(t, gate.IsAdmin())

	// Logout is unconditional
	gate.Logout()
	assert.False(t, gate.IsAdmin())
}

func TestStaticPassphrase(t *testing.T) {
	assert.True(t, StaticPassphrase("252525").Authenticate("252525"))
	assert.False(t, StaticPassphrase("252525").Authenticate(" 252525"))
	assert.False(t, StaticPassphrase("").Authenticate(""))
}

func TestInvalidPassphraseMessage(t *testing.T) {
	assert.Equal(t, "Contraseña incorrecta. Inténtalo de nuevo.", ErrInvalidPassphrase.Error())
}
