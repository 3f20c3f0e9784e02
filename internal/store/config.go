package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const configFileName = "config.toml"

// Interactive sessions wait this long before re-ranking after a completion or archive,
// so the row stays under the cursor for a moment.
const DefaultInteractiveRenormalizeDelay = 600 * time.Millisecond

type GlobalConfig struct {
	CurrentWorkspace string `toml:"current_workspace,omitempty"`

	// Author is recorded on created tasks and lists and in each task's update log.
	Author string `toml:"author,omitempty"`

	Behavior BehaviorConfig `toml:"behavior,omitempty"`
	Sort     SortConfig     `toml:"sort,omitempty"`
	Remote   RemoteConfig   `toml:"remote,omitempty"`
	Log      LogConfig      `toml:"log,omitempty"`
}

type BehaviorConfig struct {
	// RenormalizeDelay applies to one-shot commands. Empty means "0s".
	RenormalizeDelay string `toml:"renormalize_delay,omitempty"`
	// InteractiveRenormalizeDelay applies to the TUI. Empty means "600ms".
	InteractiveRenormalizeDelay string `toml:"interactive_renormalize_delay,omitempty"`
}

type SortConfig struct {
	StrictCreatedAt bool `toml:"strict_created_at,omitempty"`
	// Language is a BCP 47 tag used for title collation. Empty means Swedish.
	Language string `toml:"language,omitempty"`
}

type RemoteConfig struct {
	// Project is the document store project id.
	Project string `toml:"project,omitempty"`
	// Principal is the signed-in user's id; remote documents live under it.
	Principal string `toml:"principal,omitempty"`
	// Endpoint overrides the service base URL.
	Endpoint string `toml:"endpoint,omitempty"`
	// Timeout bounds each remote call. Empty means "10s".
	Timeout string `toml:"timeout,omitempty"`
	// CredentialsFile and TokenFile default to oauth_client.json and token.json in the
	// config dir.
	CredentialsFile string `toml:"credentials_file,omitempty"`
	TokenFile       string `toml:"token_file,omitempty"`
}

type LogConfig struct {
	// Level is one of debug|info|warn|error. Empty means warn.
	Level string `toml:"level,omitempty"`
}

// RenormalizeDelay returns the configured delay for interactive or one-shot sessions.
func (c *GlobalConfig) RenormalizeDelay(interactive bool) (time.Duration, error) {
	if interactive {
		return parseDuration("behavior.interactive_renormalize_delay", c.Behavior.InteractiveRenormalizeDelay, DefaultInteractiveRenormalizeDelay)
	}
	return parseDuration("behavior.renormalize_delay", c.Behavior.RenormalizeDelay, 0)
}

func (c *GlobalConfig) RemoteTimeout() (time.Duration, error) {
	return parseDuration("remote.timeout", c.Remote.Timeout, 10*time.Second)
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config %s: negative duration %q", key, s)
	}
	return d, nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.lista).
	if v := strings.TrimSpace(os.Getenv("LISTA_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	// Unique temp name + rename so concurrent CLI and TUI writers never leave a torn file.
	return atomicWriteFile(dir, "config.toml.*.tmp", path, b, 0o600)
}

// ListWorkspaces returns the names of workspaces under the config dir.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
