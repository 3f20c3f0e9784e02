package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lista-cli/internal/logging"
	"lista-cli/internal/model"
	"lista-cli/internal/session"
	"lista-cli/internal/sorting"
	"lista-cli/internal/store"
	"lista-cli/internal/store/remote"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management",
	}
	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceCurrentCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))
	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"workspace": name, "dir": dir},
			})
		},
	}
}

func newWorkspaceCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the resolved workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"workspace":   app.Workspace,
					"dir":         dir,
					"initialized": store.Store{Dir: dir}.Exists(),
				},
			})
		},
	}
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces under the config dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": names,
				"meta": map[string]any{"current": cfg.CurrentWorkspace},
			})
		},
	}
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}

	// Workspace-first:
	// 1) --workspace
	// 2) ~/.lista/config.toml current_workspace
	// 3) default workspace ("default")
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
		d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
		if err != nil {
			return "", err
		}
		app.Workspace = cfg.CurrentWorkspace
		app.Dir = d
		return d, nil
	}

	app.Workspace = "default"
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

// workspace is an open session plus whatever must be released with it.
type workspace struct {
	sess  *session.Session
	cfg   *store.GlobalConfig
	log   *zap.Logger
	sort  sorting.Options
	local *store.Local

	// repo holds the collections; prefs is where the storage mode lives.
	repo  store.Repository
	prefs store.Repository
}

// close drains pending saves and returns any save error reported during the command.
func (w *workspace) close(ctx context.Context) error {
	err := w.sess.Close(ctx)
	if w.local != nil {
		err = errors.Join(err, w.local.Close())
	}
	_ = w.log.Sync()
	return err
}

type openOptions struct {
	interactive bool
	onChange    func(session.Change)
	onError     func(error)
}

func openWorkspace(ctx context.Context, app *App, o openOptions) (*workspace, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Verbose: app.Verbose}
	if o.interactive && !app.Ephemeral {
		// The TUI owns the terminal.
		logOpts.File = filepath.Join(dir, "lista.log")
		if err := (store.Store{Dir: dir}).Ensure(); err != nil {
			return nil, err
		}
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	delay, err := cfg.RenormalizeDelay(o.interactive)
	if err != nil {
		return nil, err
	}
	sortOpts := sorting.Options{StrictCreatedAt: cfg.Sort.StrictCreatedAt}
	if lang := strings.TrimSpace(cfg.Sort.Language); lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, err
		}
		sortOpts.Language = tag
	}

	w := &workspace{cfg: cfg, log: log, sort: sortOpts}
	var repo, local store.Repository
	if app.Ephemeral {
		mem := store.NewMemory()
		repo, local = mem, mem
	} else {
		l, err := store.Store{Dir: dir}.Open(ctx)
		if err != nil {
			return nil, err
		}
		w.local = l
		local = l
		repo = l

		var mode model.StorageMode
		if err := store.LoadInto(ctx, l, store.KindStorageMode, &mode); err != nil {
			_ = l.Close()
			return nil, err
		}
		if app.Remote || mode == model.StorageRemote {
			r, err := openRemote(ctx, app, cfg, log)
			if err != nil {
				_ = l.Close()
				return nil, err
			}
			repo = r
		}
	}

	sess, err := session.Open(ctx, session.Options{
		Repo:             repo,
		Local:            local,
		Author:           author(app, cfg),
		RenormalizeDelay: delay,
		PersistExpansion: true,
		Sort:             sortOpts,
		Logger:           log,
		OnChange:         o.onChange,
		OnError:          o.onError,
	})
	if err != nil {
		if w.local != nil {
			_ = w.local.Close()
		}
		return nil, err
	}
	w.sess = sess
	w.repo, w.prefs = repo, local
	log.Debug("workspace opened", zap.String("dir", dir), zap.Bool("ephemeral", app.Ephemeral), zap.Duration("renormalizeDelay", delay))
	return w, nil
}

func openRemote(ctx context.Context, app *App, cfg *store.GlobalConfig, log *zap.Logger) (*remote.Backend, error) {
	timeout, err := cfg.RemoteTimeout()
	if err != nil {
		return nil, err
	}
	configDir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	principal := strings.TrimSpace(app.User)
	if principal == "" {
		principal = cfg.Remote.Principal
	}
	creds := cfg.Remote.CredentialsFile
	if creds == "" {
		creds = filepath.Join(configDir, "oauth_client.json")
	}
	token := cfg.Remote.TokenFile
	if token == "" {
		token = filepath.Join(configDir, "token.json")
	}
	return remote.New(ctx, remote.Options{
		Project:         cfg.Remote.Project,
		Principal:       principal,
		Timeout:         timeout,
		Endpoint:        cfg.Remote.Endpoint,
		CredentialsFile: creds,
		TokenFile:       token,
		Logger:          log,
	})
}

func author(app *App, cfg *store.GlobalConfig) string {
	if u := strings.TrimSpace(app.User); u != "" {
		return u
	}
	if a := strings.TrimSpace(cfg.Author); a != "" {
		return a
	}
	return os.Getenv("USER")
}

// withWorkspace opens the workspace, runs fn and closes it. A failed save surfaces as the
// command's error even when fn succeeded.
func withWorkspace(cmd *cobra.Command, app *App, fn func(w *workspace) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w, err := openWorkspace(ctx, app, openOptions{})
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := fn(w)
	if err := w.close(ctx); err != nil && runErr == nil {
		return writeErr(cmd, err)
	}
	return runErr
}
