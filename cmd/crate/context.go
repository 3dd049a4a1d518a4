package main

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zenone/crate/internal/config"
	"github.com/zenone/crate/internal/engine"
	"github.com/zenone/crate/internal/logging"
	"github.com/zenone/crate/internal/renamer"
)

// commandContext carries the persistent flag values and lazily builds
// the settings and engine every subcommand shares.
type commandContext struct {
	configFlag    *string
	templateFlag  *string
	recursiveFlag *bool
	workersFlag   *int
	includeFlag   *[]string
	verboseFlag   *bool

	once     sync.Once
	settings *config.Settings
	eng      *engine.Engine
	loadErr  error
}

func newCommandContext(configFlag, templateFlag *string, recursiveFlag *bool, workersFlag *int, includeFlag *[]string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		templateFlag:  templateFlag,
		recursiveFlag: recursiveFlag,
		workersFlag:   workersFlag,
		includeFlag:   includeFlag,
		verboseFlag:   verboseFlag,
	}
}

func (c *commandContext) load() error {
	c.once.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = config.DefaultPath()
		}
		settings, err := config.Load(path)
		if err != nil {
			c.loadErr = err
			return
		}

		// Flags override the file.
		if *c.templateFlag != "" {
			settings.DefaultTemplate = *c.templateFlag
		}
		if *c.recursiveFlag {
			settings.Recursive = true
		}
		if *c.workersFlag > 0 {
			settings.Workers = *c.workersFlag
		}
		if len(*c.includeFlag) > 0 {
			settings.IncludePatterns = *c.includeFlag
		}

		level := logging.ParseLevel(settings.LogLevel)
		if *c.verboseFlag {
			level = zerolog.DebugLevel
		}
		logger := logging.New(os.Stderr, level)

		opts := settings.ToExecutorOptions()
		opts.Logger = &logger

		c.settings = settings
		c.eng = engine.New(engine.Options{
			Executor:        renamer.New(opts),
			DefaultTemplate: settings.DefaultTemplate,
			UndoTTL:         settings.UndoTTL(),
			Logger:          &logger,
		})
	})
	return c.loadErr
}

func (c *commandContext) engine() (*engine.Engine, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.eng, nil
}

func (c *commandContext) currentSettings() (*config.Settings, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.settings, nil
}

// request builds the batch request for the optional directory argument.
func (c *commandContext) request(args, files []string) (renamer.Request, error) {
	settings, err := c.currentSettings()
	if err != nil {
		return renamer.Request{}, err
	}
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	return renamer.Request{
		Path:          path,
		Recursive:     settings.Recursive,
		SelectedFiles: files,
	}, nil
}
