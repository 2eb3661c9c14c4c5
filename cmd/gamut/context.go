package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/session"
	"gamut/internal/stage"
	"gamut/internal/stageexec"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			OutputPaths: []string{
				"stderr",
				filepath.Join(cfg.Paths.LogDir, "gamut.log"),
			},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*session.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.Open(cfg)
}

func (c *commandContext) prompter() *prompt.Prompter {
	return prompt.New(os.Stdin, os.Stderr)
}

func (c *commandContext) lockPath() string {
	if c.config == nil {
		return ""
	}
	return filepath.Join(c.config.Paths.WorkDir, "gamut.lock")
}

// runStage fetches or creates the named session and drives one pipeline
// stage through the execution helper. Stages after the first require the
// session to already exist. Viewer stages run readonly and leave the
// session record untouched.
func (c *commandContext) runStage(cmd *cobra.Command, name, stageName string, create, readonly bool, processing, done session.Status, build func(*config.Config, *slog.Logger) (stage.Handler, error)) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	sess, err := store.GetByName(ctx, name)
	if err != nil {
		if !create || !isNotFound(err) {
			if isNotFound(err) {
				return fmt.Errorf("unknown session %q; start one with `gamut chart %s`", name, name)
			}
			return err
		}
		sess, err = store.Create(ctx, name)
		if err != nil {
			return err
		}
	}

	handler, err := build(cfg, logger)
	if err != nil {
		return err
	}

	return stageexec.Run(ctx, stageexec.Options{
		Logger:     logger,
		Store:      store,
		Handler:    handler,
		StageName:  stageName,
		Processing: processing,
		Done:       done,
		Session:    sess,
		LockPath:   c.lockPath(),
		Readonly:   readonly,
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, session.ErrNotFound)
}
