package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Version is the CLI version
var Version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fastbunkai",
	Short: "FastBunkai - layered rule-based sentence segmentation",
	Long: `FastBunkai splits Japanese and English text into sentences.

Ordered rule layers propose break spans (punctuation, newlines, emoji,
kaomoji, emotion markers) and exception layers (indirect quotes,
abbreviations, decimals) cancel the false ones. The surviving spans are
resolved into sentence boundaries given as character offsets.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fastbunkai v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.fastbunkai/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".fastbunkai"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// FASTBUNKAI_HTTP_TIMEOUT overrides http.timeout
	viper.SetEnvPrefix("FASTBUNKAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("log_level", cfg.LogLevel)

	viper.SetDefault("engine.large_text_warn_bytes", cfg.Engine.LargeTextWarnBytes)
	viper.SetDefault("engine.policy_file", cfg.Engine.PolicyFile)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("http.timeout", cfg.HTTP.Timeout)
	viper.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	viper.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	viper.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	viper.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	viper.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)
	viper.SetDefault("http.insecure_tls", cfg.HTTP.InsecureTLS)
	viper.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)

	viper.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.separator", cfg.Output.Separator)
	viper.SetDefault("output.linebreak_placeholder", cfg.Output.LinebreakPlaceholder)
}

// loadConfig merges defaults, config file, env and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Output.Verbose = viper.GetBool("verbose")
	return cfg, nil
}

// newLogger builds the CLI logger; --verbose forces debug level
func newLogger(cfg *model.Config) hclog.Logger {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	if cfg.Output.Verbose {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "fastbunkai",
		Level:  level,
		Output: os.Stderr,
	})
}
