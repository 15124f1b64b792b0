package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/sample-organizer/configs"
	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
	"github.com/RyanBlaney/sample-organizer/pkg/output"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile     string // Application configuration file (optional)
	CollectionPath string // Overrides collection.path when set
	OutputFile     string
	OutputFormat   string // Overrides output_format when set
	Verbose        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// App wires configuration, logging, the collection store and result output
// for a single command run
type App struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
	out    io.Writer
}

// NewApp loads configuration from viper and creates the application
func NewApp(ctx *Context) (*App, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewAppWithConfig(ctx, config)
}

// NewAppWithConfig creates the application from an already decoded config.
// CLI overrides in ctx are applied before validation.
func NewAppWithConfig(ctx *Context, config *configs.Config) (*App, error) {
	mergeConfig(config, ctx)

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogging(ctx, config)
	ctx.Logger = logger
	ctx.Config = config

	logger.Debug("Application initialized", logging.Fields{
		"config_file":     ctx.ConfigFile,
		"collection_path": config.Collection.Path,
		"output_format":   config.OutputFormat,
		"load_mode":       config.Collection.LoadMode,
	})

	return &App{
		ctx:    ctx,
		config: config,
		logger: logger,
		out:    os.Stdout,
	}, nil
}

// mergeConfig applies CLI flags on top of file and env configuration
func mergeConfig(config *configs.Config, ctx *Context) {
	if ctx.CollectionPath != "" {
		config.Collection.Path = ctx.CollectionPath
	}
	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.Verbose {
		config.Verbose = true
	}
}

// setupLogging configures the shared logger level from config
func setupLogging(ctx *Context, config *configs.Config) logging.Logger {
	if ctx.Logger != nil {
		return ctx.Logger
	}

	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		level = logging.InfoLevel
	}
	if config.Verbose {
		level = logging.DebugLevel
	}
	logging.SetLevel(level)

	return logging.NewDefaultLogger()
}

// Config returns the merged configuration
func (app *App) Config() *configs.Config {
	return app.config
}

// Logger returns the application logger
func (app *App) Logger() logging.Logger {
	return app.logger
}

// SetOutput redirects formatted results, stdout by default
func (app *App) SetOutput(w io.Writer) {
	app.out = w
}

// CollectionPath returns the fixed collection file path
func (app *App) CollectionPath() string {
	return app.config.Collection.Path
}

// LoadMode returns the configured collection load mode
func (app *App) LoadMode() collection.LoadMode {
	mode, err := collection.ParseLoadMode(app.config.Collection.LoadMode)
	if err != nil {
		return collection.LoadReplace
	}
	return mode
}

// NewStore returns an empty store using the configured extensions
func (app *App) NewStore() *collection.Store {
	return collection.NewStore(
		collection.WithExtensions(app.config.Collection.Extensions...),
		collection.WithLogger(app.logger),
	)
}

// OpenStore returns a store holding the collection file's contents. A missing
// file yields an empty store.
func (app *App) OpenStore() (*collection.Store, error) {
	store := app.NewStore()
	path := app.CollectionPath()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		app.logger.Debug("Collection file not found, starting empty", logging.Fields{
			"path": path,
		})
		return store, nil
	}

	if err := store.Load(path, collection.LoadReplace); err != nil {
		return nil, err
	}
	return store, nil
}

// SaveStore persists store to the collection file
func (app *App) SaveStore(store *collection.Store) error {
	return store.Save(app.CollectionPath())
}

// Output formats data with the configured formatter and writes it to the
// output file or stdout
func (app *App) Output(data any) error {
	formatter, err := output.NewFormatter(app.config.OutputFormat, app.config.Output.Precision)
	if err != nil {
		return err
	}

	formattedData, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.out.Write(formattedData)
	return err
}

// writeToFile writes data to the specified output file
func (app *App) writeToFile(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}
