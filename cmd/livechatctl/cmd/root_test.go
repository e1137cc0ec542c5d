package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "livechat")
	t.Setenv("JWT_AUDIENCE", "livechat-web")

	out, err := run(t, "token", "--uid", "u1", "--name", "Ada", "--email", "ada@example.com", "--ttl", "5m")
	require.NoError(t, err)

	tokens := auth.NewTokens("cli-secret", "livechat", "livechat-web", time.Hour)
	user, err := tokens.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, auth.User{UID: "u1", DisplayName: "Ada", Email: "ada@example.com"}, user)
}

func TestTokenCmd_RequiresUID(t *testing.T) {
	_, err := run(t, "token", "--name", "Ada")

	assert.EqualError(t, err, "--uid is required")
}

func TestMigrateCmd_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := run(t, "migrate", "up")

	assert.ErrorContains(t, err, "DATABASE_URL")
}
