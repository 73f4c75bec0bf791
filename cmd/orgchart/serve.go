package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, title string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			src, closeFn, err := a.openSource()
			if err != nil {
				return err
			}
			defer closeFn()

			srv := server.New(server.Options{
				Source:       src,
				Materializer: a.cfg.Materializer(),
				Build:        a.cfg.BuildOptions(),
				Columns:      a.cfg.LoaderColumns(),
				Palette:      a.cfg.Palette(),
				Title:        title,
				AdminSecret:  a.cfg.Admin.Secret,
				AdminParam:   a.cfg.Admin.Param,
				AccessLog:    accessLog,
			})
			if err := srv.Reload(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "serving on http://%s\n", addr)
			if !a.cfg.AdminEnabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "admin uploads disabled (no admin.secret configured)")
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "Log each request")
	return cmd
}
