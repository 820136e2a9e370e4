package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dori/slowly/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.Start(ctx, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "%s http://%s/api\n", Green("Listening on"), addr)
			if err := server.NewServer(a).Run(ctx, addr); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
