package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sample-organizer/configs"
	"github.com/RyanBlaney/sample-organizer/internal/app"
)

var (
	configFile     string
	verbose        bool
	logLevel       string
	outputFormat   string
	outputFile     string
	collectionPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sample-organizer",
	Short: "Organize audio samples into labeled collections",
	Long: `Organize audio sample files into labeled collections and inspect them
as spectral frames.

A collection maps labels such as "kick" or "snare" to sets of .wav files and
is stored as a JSON document (samples.json by default).

Key features:
- Interactive organizer shell (labels, folder drops, load/save)
- Scripted label and folder commands
- FFT frame extraction with diagnostic images
- Resample-and-stack dataset batches for training pipelines`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/sample-organizer/sample-organizer.yaml)")
	rootCmd.PersistentFlags().StringVarP(&collectionPath, "collection", "f", "",
		"collection file (default is ./samples.json)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, csv, yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to a file instead of stdout")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("collection.path", rootCmd.PersistentFlags().Lookup("collection"))
}

// initConfig reads in .env, config file and ENV variables if set
func initConfig() {
	// A missing .env is normal
	_ = godotenv.Load()

	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory and /etc
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "sample-organizer"))
		viper.AddConfigPath("/etc/sample-organizer")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("sample-organizer")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix("SAMPLE_ORGANIZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variable name
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		// Apply the viper config value to the flag when the flag is not set and viper has a value.
		// Flags named like a config section (output, collection) are left alone.
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if _, section := val.(map[string]any); !section {
				if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
					lastErr = err
				}
			}
		}

		// Bind to environment variable
		if err := v.BindEnv(f.Name, "SAMPLE_ORGANIZER_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// newApp builds the application context from the global flags
func newApp() (*app.App, error) {
	ctx := &app.Context{
		ConfigFile:     configFile,
		CollectionPath: collectionPath,
		OutputFile:     outputFile,
		Verbose:        verbose,
	}
	if rootCmd.PersistentFlags().Changed("output") {
		ctx.OutputFormat = outputFormat
	}

	a, err := app.NewApp(ctx)
	if err != nil {
		return nil, err
	}
	colorsEnabled = a.Config().Output.Colors
	return a, nil
}
