package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage chat settings",
	Long: `View and configure the persisted chat preferences: sampling
temperature, retrieval depth and whether retrieval is enabled.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set one setting and persist it.

Keys:
  temperature  sampling temperature in [0.0, 1.0]
  top-k        number of chunks retrieved per question
  rag          true or false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Chat settings:")
	cmd.Printf("  temperature: %.2f\n", settings.Temperature)
	cmd.Printf("  top-k:       %d\n", settings.TopK)
	cmd.Printf("  rag:         %t\n", settings.RAGEnabled)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	key, value := args[0], args[1]
	switch key {
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", value, err)
		}
		settings.Temperature = t
	case "top-k":
		k, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid top-k %q: %w", value, err)
		}
		settings.TopK = k
	case "rag":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid rag value %q: %w", value, err)
		}
		settings.RAGEnabled = enabled
	default:
		return fmt.Errorf("unknown setting %q (want temperature, top-k or rag)", key)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Saved %s = %s\n", key, value)
	return nil
}
