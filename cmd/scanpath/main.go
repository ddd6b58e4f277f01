package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scanpath/internal/app"
	"scanpath/internal/config"
	"scanpath/internal/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// services bundles everything a command needs, with a cleanup closing the
// store and flushing the logger.
type services struct {
	Config config.Config
	App    *app.Service
	Log    *zap.Logger
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool
	var verbose bool

	newSvc := func() (*services, func(), error) {
		cfg, err := config.Ensure(configPath)
		if err != nil {
			return nil, nil, err
		}
		log, err := newLogger(cfg.Logging, verbose)
		if err != nil {
			return nil, nil, err
		}
		dbPath, err := config.ResolveDatabasePath(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := db.Open(dbPath)
		if err != nil {
			_ = log.Sync()
			return nil, nil, err
		}
		cleanup := func() {
			_ = store.Close()
			_ = log.Sync()
		}
		return &services{Config: cfg, App: app.New(store, log), Log: log}, cleanup, nil
	}

	cmd := &cobra.Command{
		Use:           "scanpath",
		Short:         "Deterministic scan paths and scan numbers for beamline acquisitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	cmd.AddCommand(newServeCmd(newSvc))
	cmd.AddCommand(newInfoCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newBeamlineCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newTemplateCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVisitCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newScanCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))

	return cmd
}

func newLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func print(jsonOutput bool, value any, text string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	if text != "" {
		fmt.Println(text)
	}
	return nil
}
