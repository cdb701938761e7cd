package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending/library/api"
	"github.com/AntonStoeckl/library-lending/library/assets"
	"github.com/AntonStoeckl/library-lending/library/auth"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd(version string) *cobra.Command {
	var migrate bool
	var secureCookies bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API",
		Example: `  # serve on the address from LIBRARY_HTTP_ADDR, creating missing tables first
  librarian serve --migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if migrate {
				if err := rt.store.Migrate(ctx); err != nil {
					return err
				}
			}

			tokens, err := auth.NewTokenService(rt.cfg.JWTSecret, rt.cfg.JWTTTL)
			if err != nil {
				return err
			}

			storage := assets.NewLocalStorage(rt.cfg.AssetsRoot, assets.WithMaxBytes(rt.cfg.UploadMaxBytes))

			handlers, err := api.NewHandlers(rt.store, storage, rt.obs)
			if err != nil {
				return err
			}

			options := []api.Option{
				api.WithLogger(rt.logger),
				api.WithAssetsRoot(rt.cfg.AssetsRoot),
				api.WithMaxUploadBytes(rt.cfg.UploadMaxBytes),
			}
			if secureCookies {
				options = append(options, api.WithSecureCookies())
			}

			server := &http.Server{
				Addr:              rt.cfg.HTTPAddr,
				Handler:           api.NewServer(handlers, auth.NewAuthenticator(rt.store, tokens), rt.store, options...).Handler(),
				ReadHeaderTimeout: readHeaderTimeout,
			}

			serverErr := make(chan error, 1)
			go func() {
				rt.logger.InfoContext(ctx, "library api listening", "addr", rt.cfg.HTTPAddr, "driver", rt.cfg.DBDriver)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				rt.logger.Info("shutting down server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					rt.logger.Error("server shutdown failed", "error", err)
					return err
				}

				rt.logger.Info("server stopped")
				return nil

			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create missing tables before serving")
	cmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Only send the session cookie over HTTPS")

	return cmd
}
