package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedSecretAuthorizer(t *testing.T) {
	authorizer := NewSharedSecretAuthorizer("kitchen-admin-secret")

	t.Run("correct secret is accepted", func(t *testing.T) {
		assert.NoError(t, authorizer.Authorize("kitchen-admin-secret"))
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		assert.ErrorIs(t, authorizer.Authorize("guess"), ErrWrongSecret)
	})

	t.Run("prefix of the secret is rejected", func(t *testing.T) {
		assert.ErrorIs(t, authorizer.Authorize("kitchen-admin"), ErrWrongSecret)
	})

	t.Run("missing secret is rejected", func(t *testing.T) {
		assert.ErrorIs(t, authorizer.Authorize(""), ErrMissingSecret)
	})
}

func TestSharedSecretAuthorizerUnconfigured(t *testing.T) {
	authorizer := NewSharedSecretAuthorizer("")

	assert.ErrorIs(t, authorizer.Authorize("anything"), ErrWrongSecret)
	assert.ErrorIs(t, authorizer.Authorize(""), ErrMissingSecret)
}
