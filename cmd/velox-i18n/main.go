// Command velox-i18n loads translatable model declarations and emits their
// translation tables as DDL, GraphQL SDL or Go types.
//
//	velox-i18n -dialect postgres ddl ./schema
//	velox-i18n -dsn "file:app.db" apply ./schema
//	velox-i18n -gomodel example.com/app/i18n -sdl i18n.graphql sdl ./schema
//	velox-i18n -target ./i18n -watch gen ./schema
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/compiler/gen"
	"github.com/syssam/velox-i18n/compiler/load"
	"github.com/syssam/velox-i18n/contrib/graphql"
	_ "github.com/syssam/velox-i18n/contrib/mixin" // register the contrib mixins
	"github.com/syssam/velox-i18n/dialect/sql"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "velox-i18n:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	c := &command{cfg: cfg, log: logger, stdout: stdout}
	if cfg.Watch {
		return c.watch(ctx)
	}
	return c.exec(ctx)
}

type command struct {
	cfg    *Config
	log    *slog.Logger
	stdout io.Writer
}

// manager loads the declarations and registers the models.
func (c *command) manager() (*i18n.Manager, error) {
	s, err := load.Load(c.cfg.Paths...)
	if err != nil {
		return nil, err
	}
	m, err := s.Manager(i18n.WithLogger(c.log))
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *command) exec(ctx context.Context) error {
	m, err := c.manager()
	if err != nil {
		return err
	}
	switch c.cfg.Command {
	case "validate":
		for _, model := range m.Models() {
			class := model.Class()
			fmt.Fprintf(c.stdout, "%s: %s (%s)\n", model.Name, class.Name, class.Table.Name)
		}
		return nil
	case "ddl":
		stmts, err := schema.DDL(ctx, c.cfg.Dialect, c.tables(m)...)
		if err != nil {
			return err
		}
		for _, s := range stmts {
			fmt.Fprintf(c.stdout, "%s;\n", s)
		}
		return nil
	case "apply":
		return c.apply(ctx, m)
	case "sdl":
		return c.sdl(m)
	case "gen":
		return c.generate(ctx, m)
	}
	return fmt.Errorf("unknown command %q", c.cfg.Command)
}

func (c *command) tables(m *i18n.Manager) []*schema.Table {
	if c.cfg.TranslationsOnly {
		return m.TranslationTables()
	}
	return m.Tables()
}

func (c *command) apply(ctx context.Context, m *i18n.Manager) error {
	drv, err := sql.Open(ctx, c.cfg.Dialect, c.cfg.DSN)
	if err != nil {
		return err
	}
	defer drv.Close()
	tables := c.tables(m)
	if err := drv.Create(ctx, tables...); err != nil {
		return err
	}
	c.log.Info("tables created", "dialect", drv.Dialect(), "tables", len(tables))
	return nil
}

func (c *command) sdl(m *i18n.Manager) error {
	var opts []graphql.Option
	if c.cfg.GoModel != "" {
		opts = append(opts, graphql.WithGoModel(c.cfg.GoModel))
	}
	sdl := graphql.SDL(m, opts...)
	if c.cfg.SDLFile == "" {
		_, err := io.WriteString(c.stdout, sdl)
		return err
	}
	if err := os.WriteFile(c.cfg.SDLFile, []byte(sdl), 0o644); err != nil {
		return fmt.Errorf("write sdl: %w", err)
	}
	c.log.Info("schema written", "file", c.cfg.SDLFile)
	if c.cfg.GQLGen == "" {
		return nil
	}
	gc, err := graphql.LoadGQLGenConfig(c.cfg.GQLGen)
	if err != nil {
		return err
	}
	gc.BindTranslations(c.cfg.GoModel, c.cfg.SDLFile, m)
	if err := graphql.SaveGQLGenConfig(c.cfg.GQLGen, gc); err != nil {
		return err
	}
	c.log.Info("gqlgen config updated", "file", c.cfg.GQLGen)
	return nil
}

func (c *command) generate(ctx context.Context, m *i18n.Manager) error {
	opts := []gen.Option{gen.WithTarget(c.cfg.Target), gen.WithPackage(c.cfg.Package)}
	if c.cfg.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.cfg.Workers))
	}
	if err := gen.Generate(ctx, m, opts...); err != nil {
		return err
	}
	c.log.Info("code generated", "target", c.cfg.Target, "models", len(m.Models()))
	return nil
}

// debounce is the quiet period after a change before regenerating.
const debounce = 200 * time.Millisecond

// watch runs the command once and again after each change of a
// declaration file, until ctx is canceled. Failed runs are logged.
func (c *command) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	for _, p := range c.cfg.Paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	c.rerun(ctx)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !declaration(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			c.log.Debug("declaration changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("watch error", "error", err)
		case <-timer.C:
			c.rerun(ctx)
		}
	}
}

func (c *command) rerun(ctx context.Context) {
	if err := c.exec(ctx); err != nil {
		c.log.Error("run failed", "command", c.cfg.Command, "error", err)
	}
}

func declaration(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
