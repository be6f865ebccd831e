package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/store"
	"github.com/blackwell-systems/basketmine/internal/web"
)

var (
	serveAddr        string
	serveDatasetsDir string
	serveMinSup      int
	servePruneRef    string
	serveNoStore     bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the mining form and JSON API over HTTP",
		Long: `Start the web front end.

GET / shows a form with a dataset name and a minimum support. Posting it
mines {datasets-dir}/{name}-out1.csv and lists the supported rules. Names
with no such file are looked up in the dataset store unless --no-store is
given.

Other routes:
  • POST /api/rules  JSON body {"database", "min_support", "prune_reference", "trace"}
  • GET  /healthz    liveness probe
  • GET  /metrics    Prometheus metrics`,
		Example: `  # Serve ./datasets on the default address
  basketmine serve

  # Listen on all interfaces
  basketmine serve --addr :8080 --datasets-dir /srv/baskets`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: 127.0.0.1:5000)")
	serveCmd.Flags().StringVar(&serveDatasetsDir, "datasets-dir", "", "directory of {name}-out1.csv files (default: datasets)")
	serveCmd.Flags().IntVarP(&serveMinSup, "min-sup", "s", 2, "minimum support when a request omits it")
	serveCmd.Flags().StringVar(&servePruneRef, "prune-ref", "", "prune reference: level or transactions")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not fall back to the dataset store")
}

func runServe(cmd *cobra.Command, args []string) error {
	webCfg, st, err := serverConfig(cmd)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	addr := settings().Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := web.NewServer(webCfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// serverConfig layers serve flags over the loaded configuration. The
// returned store, if any, must be closed by the caller.
func serverConfig(cmd *cobra.Command) (web.Config, *store.Store, error) {
	prune, err := resolvePrune(servePruneRef)
	if err != nil {
		return web.Config{}, nil, err
	}

	webCfg := web.Config{
		DatasetsDir: settings().DatasetsDir,
		MinSupport:  resolveMinSupport(cmd, serveMinSup),
		Prune:       prune,
	}
	if serveDatasetsDir != "" {
		webCfg.DatasetsDir = serveDatasetsDir
	}

	if serveNoStore {
		return webCfg, nil, nil
	}

	st, err := openStore()
	if err != nil {
		return web.Config{}, nil, err
	}
	webCfg.Source = st
	return webCfg, st, nil
}
