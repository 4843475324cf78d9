package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	token, err := Static("abc")(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestCommandSource_CachesUntilExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	src := &commandSource{
		argv: []string{"issue-token"},
		ttl:  time.Minute,
		now:  func() time.Time { return now },
		run: func(context.Context, []string) (string, error) {
			calls++
			return "token-" + string(rune('0'+calls)), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	}
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, calls)
}

func TestCommandSource_ErrorIsNotCached(t *testing.T) {
	fail := true
	src := &commandSource{
		argv: []string{"issue-token"},
		ttl:  time.Minute,
		now:  time.Now,
		run: func(context.Context, []string) (string, error) {
			if fail {
				return "", errors.New("not logged in")
			}
			return "ok", nil
		},
	}

	_, err := src.Token(context.Background())
	require.Error(t, err)

	fail = false
	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", token)
}

func TestCommandSource_EmptyOutput(t *testing.T) {
	src := &commandSource{
		argv: []string{"issue-token"},
		ttl:  time.Minute,
		now:  time.Now,
		run:  func(context.Context, []string) (string, error) { return "", nil },
	}
	_, err := src.Token(context.Background())
	assert.ErrorContains(t, err, "printed nothing")
}

func TestRunCommand_Empty(t *testing.T) {
	_, err := runCommand(context.Background(), nil)
	assert.Error(t, err)
}

func TestFromConfig_Precedence(t *testing.T) {
	t.Setenv(EnvToken, "from-env")
	token, err := FromConfig(Settings{Token: "from-file"})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	t.Setenv(EnvToken, "")
	token, err = FromConfig(Settings{Token: "from-file", TokenCommand: []string{"x"}})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)

	assert.NotNil(t, FromConfig(Settings{TokenCommand: []string{"x"}}))
	assert.Nil(t, FromConfig(Settings{}))
}
