package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print skills, experience, location and role found in a text file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		if err := runExtract(cmd.OutOrStdout(), extract.New(), args[0]); err != nil {
			logger.Fatal("extracting fields", zap.String("file", args[0]), zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(out io.Writer, extractor *extract.Extractor, path string) error {
	text, err := readText(path)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(extractor.Extract(text), "", "  ")
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	_, err = fmt.Fprintln(out, string(pretty))
	return err
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
