package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/matching"
)

const (
	app = "resume-matcher"

	defaultWorkers      = 4
	defaultMaxLogLength = 200
)

type Config struct {
	Weights   *matching.WeightConfig `mapstructure:"weights"`
	Embedding *EmbeddingConfig       `mapstructure:"embedding"`
	Workers   int                    `mapstructure:"workers"`
}

type EmbeddingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores resumes against job postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedding.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	weights := matching.DefaultWeights()
	v.SetDefault("weights.skills", weights.Skills)
	v.SetDefault("weights.semantic", weights.Semantic)
	v.SetDefault("weights.experience", weights.Experience)

	v.SetDefault("embedding.enabled", false)
	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.max-log-length", defaultMaxLogLength)

	v.SetDefault("workers", defaultWorkers)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Defaults are enough when no config file is present.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}

	if config.Weights == nil {
		weights := matching.DefaultWeights()
		config.Weights = &weights
	}
	if err := config.Weights.Validate(); err != nil {
		return nil, err
	}

	if config.Embedding == nil {
		config.Embedding = &EmbeddingConfig{}
	}

	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}

	return config, nil
}
