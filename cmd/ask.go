package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Print critique questions for a story read from a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		story, err := readStory(cmd)
		if err != nil {
			return err
		}
		if strings.TrimSpace(story) == "" {
			return errors.New("story is empty")
		}

		agent, err := buildAgent(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()
		questions, err := agent.Generate(ctx, story)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, q := range questions {
			fmt.Fprintf(out, "%d. %s\n", i+1, q)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("file", "f", "", "story file (default: stdin)")
}

func readStory(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
