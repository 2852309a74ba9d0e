package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tinybot/internal/action"
	"tinybot/internal/agent"
	"tinybot/internal/config"
	"tinybot/internal/domain"
	"tinybot/internal/logger"
	"tinybot/internal/tracker"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfgPath   string
	overrides []string
	verbose   int

	cfg     config.Config
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tinybot",
		Short: "Inspect and run tinybot action registries",
		Long: `tinybot builds an action registry from a TOML domain file plus the
built-in actions, then lists or invokes actions by name.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to config file (default ~/.tinybot/config.toml)")
	root.PersistentFlags().StringArrayVarP(&a.overrides, "config-override", "c", nil, "Override a config value (key=value), repeatable")
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Enable debug logging")

	root.AddCommand(newActionsCmd(a), newRunCmd(a), newChatCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = config.ApplyKVOverrides(cfg, a.overrides)

	level := a.cfg.LogLevel
	if a.verbose > 0 {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		return err
	}
	if closer, _, err := logger.SetupFile(a.cfg.LogPath); err != nil {
		logger.Warnf("failed to initialize log file (%s): %v", a.cfg.LogPath, err)
	} else {
		a.closers = append(a.closers, closer)
	}
	if a.cfg.ActionLogPath != "" {
		if closer, _, err := action.SetupActionLog(a.cfg.ActionLogPath); err != nil {
			log.Warnf("failed to initialize action log (%s): %v", a.cfg.ActionLogPath, err)
		} else if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}
	log.WithField("config", a.cfg.Source).Debug("config loaded")
	return nil
}

func (a *app) close() {
	logger.SetOutput(os.Stderr)
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// buildBot loads the domain file (flag value first, then config) and builds a
// bot over its actions plus agent.Default().
func (a *app) buildBot(domainPath string) (*agent.Bot, error) {
	if domainPath == "" {
		domainPath = a.cfg.Domain
	}
	var d *domain.Domain
	if domainPath != "" {
		loaded, err := domain.Load(domainPath)
		if err != nil {
			return nil, fmt.Errorf("load domain: %w", err)
		}
		d = loaded
	}

	decls, err := domain.Merge(d.Declarations(), agent.Default())
	if err != nil {
		return nil, err
	}
	reg, err := action.NewRegistry(decls)
	if err != nil {
		return nil, err
	}

	tr := tracker.New("")
	entry := log.WithField("actions", reg.Len()).WithField("domain", domainPath)
	if d != nil {
		for k, v := range d.Slots {
			tr.SetSlot(k, v)
		}
		if d.Name != "" {
			entry = entry.WithField("domain_name", d.Name)
		}
	}
	entry.Info("registry ready")
	return agent.New(reg, tr), nil
}
