package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings.
type Config struct {
	// User configurable settings
	PlaylistURL   string
	FeedURL       string
	SubLangs      string
	SyncInterval  time.Duration
	ListTimeout   time.Duration
	FetchTimeout  time.Duration
	AnswerTimeout time.Duration
	SearchLimit   int
	Model         string
	OpenAIAPIKey  string
	Prompt        string
	LogLevel      string
	LogFormat     string
	Verbose       bool
	Quiet         bool
	MCPLogEnabled bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string

	// Derived data locations
	TranscriptsDir string
	CatalogPath    string
	RunRecordPath  string
	IndexPath      string
	LockPath       string
	LogPath        string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile writes an embedded default into the config directory if
// the file does not exist yet.
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

// EnsureDefaultConfig writes the embedded config.toml to the config
// directory on first run.
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt writes the embedded prompt.txt to the config directory
// on first run.
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig initializes Viper and loads configuration.
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "podseek")
	dataDir := filepath.Join(xdg.DataHome, "podseek")
	cacheDir := filepath.Join(xdg.CacheHome, "podseek")

	v := viper.New()

	v.SetDefault("playlist_url", "")
	v.SetDefault("feed_url", "")
	v.SetDefault("sub_langs", "es,en")
	v.SetDefault("sync_interval", 6*time.Hour)
	v.SetDefault("list_timeout", 60*time.Second)
	v.SetDefault("fetch_timeout", 120*time.Second)
	v.SetDefault("answer_timeout", 2*time.Minute)
	v.SetDefault("search_limit", 5)
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("transcripts_dir", filepath.Join(dataDir, "transcripts"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("PODSEEK")
	v.AutomaticEnv()

	// The OpenAI key is usually set via its conventional variable.
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		PlaylistURL:   v.GetString("playlist_url"),
		FeedURL:       v.GetString("feed_url"),
		SubLangs:      v.GetString("sub_langs"),
		SyncInterval:  v.GetDuration("sync_interval"),
		ListTimeout:   v.GetDuration("list_timeout"),
		FetchTimeout:  v.GetDuration("fetch_timeout"),
		AnswerTimeout: v.GetDuration("answer_timeout"),
		SearchLimit:   v.GetInt("search_limit"),
		Model:         v.GetString("model"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),
		Prompt:        v.GetString("prompt"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		Verbose:       v.GetBool("verbose"),
		Quiet:         v.GetBool("quiet"),
		MCPLogEnabled: v.GetBool("mcp_log"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,

		TranscriptsDir: v.GetString("transcripts_dir"),
		CatalogPath:    filepath.Join(dataDir, "videos.json"),
		RunRecordPath:  filepath.Join(dataDir, "sync_log.json"),
		IndexPath:      filepath.Join(dataDir, "search.db"),
		LockPath:       filepath.Join(dataDir, "sync.lock"),
		LogPath:        filepath.Join(dataDir, "podseek.log"),
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
