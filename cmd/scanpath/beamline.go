package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanpath/internal/paths"
)

func newBeamlineCmd(newSvc func() (*services, func(), error), jsonOutput *bool) *cobra.Command {
	var visitTpl string
	var scanTpl string
	var detectorTpl string
	var fallbackDir string
	var fallbackExt string

	beamlineCmd := &cobra.Command{Use: "beamline", Aliases: []string{"bl"}, Short: "Manage beamline configuration"}

	setCmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a beamline's templates and fallback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			name := args[0]
			ctx := cmd.Context()
			for kind, text := range map[paths.Kind]string{
				paths.KindVisit:    visitTpl,
				paths.KindScan:     scanTpl,
				paths.KindDetector: detectorTpl,
			} {
				if text == "" {
					continue
				}
				if err := svc.App.SetTemplate(ctx, name, kind, text); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("fallback-dir") || cmd.Flags().Changed("fallback-ext") {
				if err := svc.App.SetFallback(ctx, name, fallbackDir, fallbackExt); err != nil {
					return err
				}
			}
			configs, err := svc.App.Info(ctx, name)
			if err != nil {
				return err
			}
			return print(*jsonOutput, configs[0], fmt.Sprintf("updated beamline %s", name))
		},
	}
	setCmd.Flags().StringVar(&visitTpl, "visit", "", "visit directory template")
	setCmd.Flags().StringVar(&scanTpl, "scan", "", "scan file template")
	setCmd.Flags().StringVar(&detectorTpl, "detector", "", "detector file template")
	setCmd.Flags().StringVar(&fallbackDir, "fallback-dir", "", "legacy numbering directory")
	setCmd.Flags().StringVar(&fallbackExt, "fallback-ext", "", "legacy marker file extension")

	beamlineCmd.AddCommand(setCmd)
	return beamlineCmd
}
