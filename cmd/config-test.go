package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sample-organizer/configs"
	"github.com/RyanBlaney/sample-organizer/internal/app"
)

var configTestGenerate string

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly.

Examples:
  # Test with default config file
  sample-organizer config-test

  # Test with specific config file
  sample-organizer --config /path/to/config.yaml config-test

  # Write a config file holding every default
  sample-organizer config-test --generate ./configs/sample-organizer.yaml`,
	RunE: runConfigTest,
}

func init() {
	configTestCmd.Flags().StringVar(&configTestGenerate, "generate", "",
		"write an example config file with all defaults to this path and exit")
	rootCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	if configTestGenerate != "" {
		if err := app.GenerateExampleConfig(configTestGenerate); err != nil {
			return err
		}
		printSuccess("Example configuration written to: %s", configTestGenerate)
		return nil
	}

	fmt.Println("SAMPLE ORGANIZER CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 80))

	var (
		config *configs.Config
		err    error
	)
	if configFile != "" {
		config, err = app.LoadConfigFile(configFile)
	} else {
		config, err = configs.LoadConfig()
		if err == nil {
			err = configs.ValidateConfig(config)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	colorsEnabled = config.Output.Colors

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)
	printKeyValue("Config Directory", config.ConfigDir)

	printSection("COLLECTION CONFIGURATION")
	printKeyValue("Path", config.Collection.Path)
	printKeyValue("Extensions", fmt.Sprintf("(%d) %v", len(config.Collection.Extensions), config.Collection.Extensions))
	printKeyValue("Load Mode", config.Collection.LoadMode)

	printSection("FRAMES CONFIGURATION")
	printKeyValue("FFT Size", fmt.Sprintf("%d", config.Frames.FFTSize))
	printKeyValue("Hop Length", fmt.Sprintf("%d", config.Frames.HopLength))
	printKeyValue("Window", config.Frames.Window)
	printKeyValue("Channel Mode", config.Frames.ChannelMode)
	if config.Frames.SampleRate > 0 {
		printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Frames.SampleRate))
	} else {
		printKeyValue("Sample Rate", "native")
	}

	printSubsection("Render")
	printKeyValue("  Count", fmt.Sprintf("%d", config.Render.Count))
	printKeyValue("  Directory", config.Render.Dir)
	printKeyValue("  Format", config.Render.Format)
	printKeyValue("  Size", fmt.Sprintf("%dx%d per channel", config.Render.Width, config.Render.Height))

	printSection("DATASET CONFIGURATION")
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Dataset.SampleRate))
	printKeyValue("FFT Size", fmt.Sprintf("%d", config.Dataset.FFTSize))
	printKeyValue("Hop Length", fmt.Sprintf("%d", config.Dataset.HopLength))
	printKeyValue("Window", config.Dataset.Window)
	printKeyValue("Batch Size", fmt.Sprintf("%d", config.Dataset.BatchSize))
	printKeyValue("Shuffle", fmt.Sprintf("%t", config.Dataset.Shuffle))
	printKeyValue("Seed", fmt.Sprintf("%d", config.Dataset.Seed))
	if config.Dataset.Workers > 0 {
		printKeyValue("Workers", fmt.Sprintf("%d", config.Dataset.Workers))
	} else {
		printKeyValue("Workers", "all CPUs")
	}

	printSection("OUTPUT CONFIGURATION")
	printKeyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue("Colors", fmt.Sprintf("%t", config.Output.Colors))

	fmt.Println()
	fmt.Println(color(ColorGreen) + strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Printf("Config file: %s\n", getConfigFilePath())
	fmt.Println(strings.Repeat("=", 80) + color(ColorReset))

	return nil
}

func getConfigFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "(none, defaults and environment only)"
}
