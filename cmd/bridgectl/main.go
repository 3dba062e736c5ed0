// Command bridgectl runs the bidding trainer server and offers the engine on
// the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridge-lite/advisor"
	"bridge-lite/internal/api"
	"bridge-lite/internal/config"
	"bridge-lite/internal/llm"
	"bridge-lite/internal/logging"
	"bridge-lite/system"
)

// app is the state shared by all subcommands once the root pre-run is done.
type app struct {
	verbose    bool
	systemName string
	systemDir  string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bridgectl",
		Short: "Contract bridge bidding trainer",
		Long: `bridgectl serves the bidding trainer API and exposes the deterministic
bidding engine on the command line.

Configuration is read from the environment and an optional .env file
(BRIDGE_* keys, GEMINI_API_KEY).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.systemName != "" {
				cfg.DefaultSystem = strings.ToLower(a.systemName)
			}
			if a.systemDir != "" {
				cfg.SystemDir = a.systemDir
			}
			a.cfg = cfg
			a.logger, err = logging.New(a.verbose || cfg.Debug())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&a.systemName, "system", "s", "", "Bidding system (default from BRIDGE_DEFAULT_SYSTEM)")
	root.PersistentFlags().StringVar(&a.systemDir, "system-dir", "", "Directory of extra system YAML files")

	root.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newLegalCmd(a),
		newSystemsCmd(a),
		newDealCmd(a),
	)
	return root
}

// registry loads the embedded systems plus the configured directory.
func (a *app) registry() (*system.Registry, error) {
	reg, err := system.NewRegistry(a.cfg.SystemCache)
	if err != nil {
		return nil, err
	}
	if a.cfg.SystemDir != "" {
		names, err := reg.LoadDir(a.cfg.SystemDir)
		if err != nil {
			return nil, err
		}
		a.logger.Info("systems loaded", zap.String("dir", a.cfg.SystemDir), zap.Strings("names", names))
	}
	if _, err := reg.Get(a.cfg.DefaultSystem); err != nil {
		return nil, fmt.Errorf("default system: %w", err)
	}
	return reg, nil
}

// external builds the Gemini advisor and recognizer; both are nil without
// an API key.
func (a *app) external(ctx context.Context) (advisor.External, api.Recognizer, error) {
	if !a.cfg.ExternalEnabled() {
		return nil, nil, nil
	}
	log := a.logger.Named("llm")
	client, err := llm.NewGeminiClient(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel, log)
	if err != nil {
		return nil, nil, err
	}
	return llm.NewAdvisor(client, log), llm.NewRecognizer(client, log), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
