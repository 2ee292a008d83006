package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	to, subject, body string
	err               error
}

func (c *captureSender) Send(to, subject, body string) error {
	c.to, c.subject, c.body = to, subject, body
	return c.err
}

func TestSendPasswordResetIncludesURL(t *testing.T) {
	capture := &captureSender{}
	prev := Default
	Default = capture
	defer func() { Default = prev }()

	err := SendPasswordReset("ada@example.com", "http://localhost:4000/api/v1/users/resetPassword/tok123")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", capture.to)
	assert.Contains(t, capture.subject, "password reset")
	assert.Contains(t, capture.body, "resetPassword/tok123")
}

func TestSendPasswordResetSurfacesFailure(t *testing.T) {
	prev := Default
	Default = &captureSender{err: errors.New("relay down")}
	defer func() { Default = prev }()

	assert.Error(t, SendPasswordReset("ada@example.com", "http://x/reset"))
}

func TestSendWelcomeSwallowsFailure(t *testing.T) {
	prev := Default
	Default = &captureSender{err: errors.New("relay down")}
	defer func() { Default = prev }()

	// must not panic or propagate
	SendWelcome("ada@example.com", "Ada")
}
