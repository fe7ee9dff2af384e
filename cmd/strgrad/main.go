package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"strgrad/pkg/config"
)

var (
	configPath string
	verbose    bool
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "strgrad",
	Short: "String predicate distance oracle",
	Long: `strgrad evaluates string predicates (equality, prefix, suffix, containment,
emptiness) and reports, next to the real boolean result, a Truthness value
telling how close the predicate came to flipping.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		} else {
			log.SetFlags(log.LstdFlags)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format: json, text (overrides config)")
}

// loadConfig 加载配置，命令行参数覆盖文件中的值
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("[Config] tracer=%+v taint=%+v metrics=%+v output=%+v", cfg.Tracer, cfg.Taint, cfg.Metrics, cfg.Output)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
