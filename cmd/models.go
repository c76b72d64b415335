package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytchat/ytchat/internal"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available to the configured API key",
	Example: `  # List available models
  ytchat models

  # Save the model list to file as pretty JSON
  ytchat models --json --pretty -o models.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
			return err
		}

		llm := internal.NewLLMWithKey(config.OpenAIAPIKey, config.ChatModel, config.ChatTimeout, config.Verbose)
		models, err := llm.Models(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		outputFile, _ := cmd.Flags().GetString("output")

		if asJSON || outputFile != "" {
			var jsonData []byte
			pretty, _ := cmd.Flags().GetBool("pretty")
			if pretty {
				jsonData, err = json.MarshalIndent(models, "", "  ")
			} else {
				jsonData, err = json.Marshal(models)
			}
			if err != nil {
				return fmt.Errorf("error converting models to JSON: %w", err)
			}

			if outputFile != "" {
				return os.WriteFile(outputFile, jsonData, 0644)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		for _, model := range models {
			marker := "  "
			if model.ID == config.ChatModel {
				marker = "* "
			}
			fmt.Printf("%s%s (%s)\n", marker, model.ID, model.OwnedBy)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("json", false, "Output as JSON")
	modelsCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	modelsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(modelsCmd)
}
