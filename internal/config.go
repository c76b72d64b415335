package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	ChatModel     string
	DatabasePath  string
	ChatTimeout   time.Duration
	HistoryLimit  int
	Instruction   string
	Verbose       bool
	Quiet         bool
	MCPLogEnabled bool
	OpenAIAPIKey  string

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml instruction.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Printf("Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultInstruction checks if an instruction.txt file exists in the
// XDG config directory and creates it from the embedded default if needed
func EnsureDefaultInstruction(configDir string) error {
	return ensureDefaultFile(configDir, "instruction.txt", "instruction template")
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	ytdlp.MustInstall(context.Background(), nil)

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "ytchat")
	dataDir := filepath.Join(xdg.DataHome, "ytchat")
	cacheDir := filepath.Join(xdg.CacheHome, "ytchat")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("chat_model", "gpt-4o-mini")
	v.SetDefault("database_path", filepath.Join(dataDir, "ytchat.db"))
	v.SetDefault("chat_timeout", 2*time.Minute)
	v.SetDefault("history_limit", 0) // replay full history
	v.SetDefault("instruction", "")  // if empty will use default template
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("YTCHAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("_", "_"))

	// Special case for OpenAI API Key - check both Viper and direct env var
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		ChatModel:     v.GetString("chat_model"),
		DatabasePath:  v.GetString("database_path"),
		ChatTimeout:   v.GetDuration("chat_timeout"),
		HistoryLimit:  v.GetInt("history_limit"),
		Instruction:   v.GetString("instruction"),
		Verbose:       v.GetBool("verbose"),
		Quiet:         v.GetBool("quiet"),
		MCPLogEnabled: v.GetBool("mcp_log"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
