package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/certs"
	"github.com/Veraticus/la-lenera/internal/config"
	"github.com/Veraticus/la-lenera/internal/httpapi"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ordering page and its JSON API",
		Long: `Run the web version of the ordering flow.

The port comes from server.port, or from PORT when it is set. When a catalog
file is configured it is watched and reloaded on every valid save. With --tls
a self-signed certificate is created next to the database and reused.`,
		RunE: runServe,
	}

	cmd.Flags().Bool("secure-cookies", false, "mark the cooldown cookie Secure (behind HTTPS)")
	cmd.Flags().Bool("no-watch", false, "do not reload the catalog file on change")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed development certificate")
	cmd.Flags().StringSlice("tls-host", certs.DefaultHosts, "hosts the development certificate covers")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	secure, _ := cmd.Flags().GetBool("secure-cookies")
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	useTLS, _ := cmd.Flags().GetBool("tls")
	tlsHosts, _ := cmd.Flags().GetStringSlice("tls-host")

	cat, site, err := loadSite()
	if err != nil {
		return err
	}
	if site.Env == config.EnvProduction && !cmd.Flags().Changed("secure-cookies") {
		secure = true
	}

	logger := slog.Default().With("component", "http")
	opts := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithCooldown(site.Cooldown),
	}
	if useTLS {
		manager := certs.NewFileManager(filepath.Join(filepath.Dir(site.DatabasePath), "certs"), tlsHosts...)
		cert, err := manager.GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		logger.Info("Serving with development certificate", "cert", manager.CertFile())
		opts = append(opts, httpapi.WithTLS(cert))
		if !cmd.Flags().Changed("secure-cookies") {
			secure = true
		}
	}
	opts = append(opts, httpapi.WithSecureCookies(secure))

	srv, err := httpapi.New(cat, site.Phone, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var wg sync.WaitGroup
	if site.CatalogPath != "" && !noWatch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := catalog.Watch(ctx, site.CatalogPath, func(next *catalog.Catalog) {
				if err := srv.Reload(next); err != nil {
					logger.Warn("Catalog reload rejected", "error", err)
					return
				}
				logger.Info("Catalog reloaded", "path", site.CatalogPath)
			})
			if err != nil {
				logger.Error("Catalog watcher stopped", "error", err)
			}
		}()
	}

	err = srv.ListenAndServe(ctx, site.Addr())
	cancel()
	wg.Wait()
	return err
}
