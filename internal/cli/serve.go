package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/observability"
	"github.com/mysomang/mytalk/internal/server"
	"github.com/mysomang/mytalk/internal/store"
)

var (
	flagServeAddr    string
	flagServeDataDir string
	flagServeVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser interface",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagServeAddr, "addr", "a", ":8765", "Listen address")
	serveCmd.Flags().StringVarP(&flagServeDataDir, "data-dir", "D", "", "Data directory (default mytalk_data)")
	serveCmd.Flags().BoolVarP(&flagServeVerbose, "verbose", "v", false, "Enable detailed logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := config.Load(flagServeDataDir)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(flagServeVerbose)

	tp, err := observability.InitTracer(ctx, "mytalk", Version)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutdownCancel()
			tp.Shutdown(shutdownCtx)
		}()
	}

	st := store.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("MyTalk studio listening on %s (data in %s)\n", flagServeAddr, settings.DataDir)
	return server.New(st, settings, logger).ListenAndServe(ctx, flagServeAddr)
}
