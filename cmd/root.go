package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"story_polisher/config"
	"story_polisher/generator"
	"story_polisher/logging"
)

var rootCmd = &cobra.Command{
	Use:           "story-polisher",
	Short:         "Ask an LLM for critique questions about a story",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "config/config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

// loadConfig resolves config from flags, .env and the environment, and
// installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	config.LoadEnvFile(envFile)

	path, _ := cmd.Flags().GetString("config")
	optional := !cmd.Flags().Changed("config")
	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	logging.Init(os.Stderr, cfg.Log.Level)
	return cfg, nil
}

// buildAgent wires the configured provider into a generator.Agent.
func buildAgent(ctx context.Context, cfg config.Config) (*generator.Agent, error) {
	retry := generator.DefaultRetryConfig()
	if cfg.LLM.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.LLM.MaxAttempts
	}
	llm, err := generator.NewLLM(ctx, generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}, retry, nil)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm,
		generator.WithStrategy(generator.Strategy(cfg.LLM.Strategy)),
		generator.WithMaxTokens(cfg.LLM.MaxTokens),
		generator.WithTemperature(cfg.LLM.Temperature),
	)
}
