package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scanpath/internal/server"
)

func newServeCmd(newSvc func() (*services, func(), error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the path API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newSvc()
			if err != nil {
				return err
			}
			defer cleanup()

			listen := addr
			if listen == "" {
				listen = svc.Config.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.New(svc.App, svc.Log).ListenAndServe(ctx, listen)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
