// Package credential supplies bearer tokens to the API client.
package credential

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuilift/internal/api"
)

// EnvToken overrides every configured credential source.
const EnvToken = "TUILIFT_TOKEN"

// DefaultTTL is how long a token produced by a command is reused.
const DefaultTTL = 5 * time.Minute

// Static returns a provider that always yields token.
func Static(token string) api.TokenFunc {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

// Command returns a provider that runs argv and uses its trimmed stdout as
// the token. Results are cached for ttl.
func Command(argv []string, ttl time.Duration) api.TokenFunc {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &commandSource{argv: argv, ttl: ttl, now: time.Now, run: runCommand}
	return c.Token
}

type commandSource struct {
	argv []string
	ttl  time.Duration
	now  func() time.Time
	run  func(ctx context.Context, argv []string) (string, error)

	mu      sync.Mutex
	token   string
	expires time.Time
}

func (c *commandSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}
	token, err := c.run(ctx, c.argv)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("token command %q printed nothing", c.argv[0])
	}
	c.token = token
	c.expires = c.now().Add(c.ttl)
	log.WithField("expires", c.expires.Format(time.RFC3339)).Debug("refreshed api token")
	return token, nil
}

func runCommand(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("token command is empty")
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("token command %q: %w: %s", argv[0], err, msg)
		}
		return "", fmt.Errorf("token command %q: %w", argv[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Settings are the configured credential sources.
type Settings struct {
	Token        string
	TokenCommand []string
	TokenTTL     time.Duration
}

// FromConfig picks the first available source: the TUILIFT_TOKEN environment
// variable, a literal token, then a token command. It returns nil when none
// is configured, which sends requests without credentials.
func FromConfig(s Settings) api.TokenFunc {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return Static(token)
	}
	if token := strings.TrimSpace(s.Token); token != "" {
		return Static(token)
	}
	if len(s.TokenCommand) > 0 {
		return Command(s.TokenCommand, s.TokenTTL)
	}
	return nil
}
