package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fieldbook/internal/config"
	"fieldbook/internal/filestore"
	"fieldbook/internal/logging"
	"fieldbook/internal/reconcile"
	"fieldbook/internal/report"
	"fieldbook/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// appEnv bundles the opened workspace for one command invocation.
type appEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	files  *filestore.Store
}

// withEnv opens the workspace (config, logger, locked store, file store),
// runs fn, and closes the store afterwards.
func (c *commandContext) withEnv(fn func(*appEnv) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	env := &appEnv{
		cfg:    cfg,
		logger: logger,
		store:  st,
		files:  filestore.New(cfg.Paths.ImagesDir, logger),
	}
	return fn(env)
}

func (e *appEnv) engine() *reconcile.Engine {
	return reconcile.New(e.files, e.store, e.logger)
}

func (e *appEnv) assembler() *report.Assembler {
	return report.NewAssembler(e.store, e.logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
