package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scanpath/internal/scan"
)

func newVisitCmd(newSvc func() (*services, func(), error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <beamline> <visit>",
		Short: "Print the visit directory for a visit on a beamline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := scan.ParseVisit(args[1]); err != nil {
				return err
			}
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			dir, err := svc.App.VisitDirectory(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return print(*jsonOutput, map[string]string{"beamline": args[0], "visit": args[1], "directory": dir}, dir)
		},
	}
}

func newScanCmd(newSvc func() (*services, func(), error), jsonOutput *bool) *cobra.Command {
	var subdirectory string
	var detectors []string

	scanCmd := &cobra.Command{Use: "scan", Short: "Allocate scan numbers and paths"}

	nextCmd := &cobra.Command{
		Use:   "next <beamline> <visit>",
		Short: "Allocate the next scan number and print its paths",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := scan.ParseVisit(args[1]); err != nil {
				return err
			}
			sub, err := scan.NewSubdirectory(subdirectory)
			if err != nil {
				return err
			}
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			allocated, err := svc.App.AllocateScan(cmd.Context(), args[0], args[1], sub)
			if err != nil {
				return err
			}
			detectorPaths, err := allocated.DetectorPaths(detectors)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return print(true, map[string]any{
					"beamline":   allocated.Beamline,
					"visit":      allocated.Visit,
					"scanNumber": allocated.Number,
					"scanFile":   allocated.FilePath,
					"detectors":  detectorPaths,
				}, "")
			}
			fmt.Printf("scan %d: %s\n", allocated.Number, allocated.FilePath)
			for _, det := range detectorPaths {
				fmt.Printf("    %s: %s\n", det.Name, det.Path)
			}
			return nil
		},
	}
	nextCmd.Flags().StringVar(&subdirectory, "subdirectory", "", "subdirectory under the visit directory")
	nextCmd.Flags().StringArrayVar(&detectors, "detector", nil, "detector name (repeatable)")

	scanCmd.AddCommand(nextCmd)
	return scanCmd
}
