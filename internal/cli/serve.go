package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bulidiriba/Hidden-Markov-Model/internal/server"
)

func (c *CLI) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyze and train endpoints over HTTP",
		Example: `  hmm serve --listen :8080
  HMM_LISTEN=127.0.0.1:9000 hmm serve -v

  curl -s localhost:8080/api/v1/analyze -H 'Content-Type: application/json' -d @weather.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd, "listen"); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			return server.Run(ctx, c.config.GetString("listen"), server.NewRouter(reg))
		},
	}

	cmd.Flags().String("listen", ":8080", "Address to listen on")
	return cmd
}
