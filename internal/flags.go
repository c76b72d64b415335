package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for chat")
	cmd.Flags().StringP("instruction", "i", "", "Custom instruction template (string or file path)")
}

// HandleInstructionFlag processes the --instruction flag to set a custom template
func HandleInstructionFlag(cmd *cobra.Command, app *App) error {
	flag := cmd.Flags().Lookup("instruction")
	if flag == nil || !flag.Changed {
		return nil
	}

	instruction, err := cmd.Flags().GetString("instruction")
	if err != nil {
		return fmt.Errorf("failed to get instruction flag: %w", err)
	}

	if instruction == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, instruction))

	if app.config.Verbose {
		if IsLikelyFilePath(instruction) && FileExists(instruction) {
			fmt.Printf("Using custom instruction file: %s\n", instruction)
		} else {
			fmt.Printf("Using custom instruction string\n")
		}
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose {
		config.Verbose = true
	}
	return nil
}

// ValidateOpenAIRequirements validates the API key and applies a model
// override from command flags.
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		config.ChatModel = modelFlag
	}
	if config.ChatModel == "" {
		return fmt.Errorf("no chat model configured")
	}

	return nil
}
