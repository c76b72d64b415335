package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytchat/ytchat/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytchat [YouTube URL or ID]",
	Short: "Chat with YouTube videos",
	Long: `ytchat lets you have a conversation about a YouTube video.

It fetches the video transcript, generates an initial summary, and then
answers questions grounded in the video content. Conversations are
stored locally per video, so reopening a video resumes where you left
off. The assistant suggests three follow-up questions after every
answer; type a question or just its number.`,
	Example: `  # Chat about a YouTube video
  ytchat "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytchat tAP1eZYEuKA

  # Use a specific OpenAI model
  ytchat "https://youtu.be/tAP1eZYEuKA" --model gpt-4o

  # Use a custom instruction template
  ytchat tAP1eZYEuKA --instruction my-instruction.txt`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		// Validate argument before processing
		arg := args[0]
		if internal.IsLikelyCommand(arg) {
			availableCommands := []string{"ask", "library", "transcript", "cp", "models", "mcp", "paths", "version", "help"}
			var suggestions []string
			for _, cmdName := range availableCommands {
				if strings.Contains(cmdName, arg) || (len(arg) <= len(cmdName) && strings.Contains(arg, cmdName[:len(arg)])) {
					suggestions = append(suggestions, cmdName)
				}
			}

			if len(suggestions) > 0 {
				return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := internal.HandleInstructionFlag(cmd, app); err != nil {
			return err
		}

		videoID, err := app.OpenVideo(cmd.Context(), arg)
		if err != nil {
			return err
		}

		return app.ChatLoop(cmd.Context(), videoID)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Ensure default instruction template exists in XDG config directory
	if err := internal.EnsureDefaultInstruction(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default instruction: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddOpenAIFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytchat/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
