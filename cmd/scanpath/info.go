package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanpath/internal/db"
)

func newInfoCmd(newSvc func() (*services, func(), error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info [beamline]",
		Short: "Show configured beamlines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			configs, err := svc.App.Info(cmd.Context(), name)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, configs, "")
			}
			if len(configs) == 0 {
				fmt.Println("no beamlines configured")
				return nil
			}
			for _, cfg := range configs {
				printBeamline(cfg)
			}
			return nil
		},
	}
}

func printBeamline(cfg db.BeamlineConfig) {
	fmt.Printf("%s (scan number: %d)\n", cfg.Name, cfg.ScanNumber)
	fmt.Printf("    visit:    %s\n", orUnset(cfg.Visit))
	fmt.Printf("    scan:     %s\n", orUnset(cfg.Scan))
	fmt.Printf("    detector: %s\n", orUnset(cfg.Detector))
	if cfg.Fallback != nil {
		fmt.Printf("    fallback: %s (*.%s)\n", cfg.Fallback.Directory, cfg.Fallback.Extension)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}
