package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcptools "github.com/promptbench/promptbench/internal/mcp"
	"github.com/promptbench/promptbench/internal/server"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	shutdownGrace = 10 * time.Second
)

type serveFlags struct {
	transport    string
	httpAddr     string
	httpEndpoint string
	dataDir      string
	debug        bool

	enableOAuth     bool
	oauthBaseURL    string
	oauthProvider   string
	dexIssuerURL    string
	dexClientID     string
	dexClientSecret string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to expose the bench harness via the Model Context
Protocol: creating suites, running scored evaluations, and retrieving runs.

Supports multiple transport types:
  - stdio: Standard input/output (default, for IDE integration)
  - streamable-http: HTTP with streaming support (for remote access)

When using streamable-http transport, OAuth 2.1 authentication can be enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.debug {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			sc := &server.ServerContext{
				Store:   storeFromFlags(cmd),
				DataDir: flags.dataDir,
			}

			mcpSrv := mcpserver.NewMCPServer("promptbench", rootCmd.Version,
				mcpserver.WithToolCapabilities(true),
			)
			if err := mcptools.RegisterTools(mcpSrv, sc); err != nil {
				return fmt.Errorf("failed to register MCP tools: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			switch flags.transport {
			case transportStdio:
				if err := mcpserver.ServeStdio(mcpSrv); err != nil {
					return fmt.Errorf("server stopped with error: %w", err)
				}
				return nil
			case transportStreamableHTTP:
				if flags.enableOAuth {
					return serveOAuthHTTP(ctx, mcpSrv, flags)
				}
				return servePlainHTTP(ctx, mcpSrv, flags)
			default:
				return fmt.Errorf("unsupported transport: %s (supported: stdio, streamable-http)", flags.transport)
			}
		},
	}

	cmd.Flags().StringVar(&flags.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&flags.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http)")
	cmd.Flags().StringVar(&flags.httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http)")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", ".", "Directory CSV path arguments are resolved within")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.Flags().BoolVar(&flags.enableOAuth, "enable-oauth", false, "Enable OAuth 2.1 authentication (for HTTP transport)")
	cmd.Flags().StringVar(&flags.oauthBaseURL, "oauth-base-url", "", "OAuth base URL (e.g. https://bench.example.com)")
	cmd.Flags().StringVar(&flags.oauthProvider, "oauth-provider", "dex", "OAuth provider: dex")
	cmd.Flags().StringVar(&flags.dexIssuerURL, "dex-issuer-url", "", "Dex OIDC issuer URL")
	cmd.Flags().StringVar(&flags.dexClientID, "dex-client-id", "", "Dex OAuth client ID")
	cmd.Flags().StringVar(&flags.dexClientSecret, "dex-client-secret", "", "Dex OAuth client secret")

	return cmd
}

// serveUntilDone runs start in the background and blocks until either the
// context is cancelled (then stop is called with a grace period) or start
// returns on its own.
func serveUntilDone(ctx context.Context, start func() error, stop func(context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := start(); err != nil && err != http.ErrServerClosed {
			done <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping server")
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := stop(stopCtx); err != nil {
			return fmt.Errorf("error shutting down: %w", err)
		}
	case err := <-done:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

func servePlainHTTP(ctx context.Context, mcpSrv *mcpserver.MCPServer, flags serveFlags) error {
	mux := http.NewServeMux()
	mux.Handle(flags.httpEndpoint, mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(flags.httpEndpoint),
	))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              flags.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting MCP server",
		"transport", transportStreamableHTTP,
		"addr", flags.httpAddr,
		"endpoint", flags.httpEndpoint,
	)
	return serveUntilDone(ctx, httpServer.ListenAndServe, httpServer.Shutdown)
}

func serveOAuthHTTP(ctx context.Context, mcpSrv *mcpserver.MCPServer, flags serveFlags) error {
	// Env fallbacks for credentials not passed via flags.
	if flags.dexIssuerURL == "" {
		flags.dexIssuerURL = os.Getenv("DEX_ISSUER_URL")
	}
	if flags.dexClientID == "" {
		flags.dexClientID = os.Getenv("DEX_CLIENT_ID")
	}
	if flags.dexClientSecret == "" {
		flags.dexClientSecret = os.Getenv("DEX_CLIENT_SECRET")
	}

	if flags.oauthBaseURL == "" {
		return fmt.Errorf("--oauth-base-url is required when --enable-oauth is set")
	}
	if flags.dexIssuerURL == "" {
		return fmt.Errorf("dex issuer URL is required (--dex-issuer-url or DEX_ISSUER_URL)")
	}
	if flags.dexClientID == "" {
		return fmt.Errorf("dex client ID is required (--dex-client-id or DEX_CLIENT_ID)")
	}
	if flags.dexClientSecret == "" {
		return fmt.Errorf("dex client secret is required (--dex-client-secret or DEX_CLIENT_SECRET)")
	}

	oauthSrv, err := server.NewOAuthHTTPServer(mcpSrv, flags.httpEndpoint, server.OAuthConfig{
		BaseURL:         flags.oauthBaseURL,
		Provider:        flags.oauthProvider,
		DexIssuerURL:    flags.dexIssuerURL,
		DexClientID:     flags.dexClientID,
		DexClientSecret: flags.dexClientSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to create OAuth HTTP server: %w", err)
	}

	slog.Info("starting OAuth-enabled MCP server",
		"addr", flags.httpAddr,
		"base_url", flags.oauthBaseURL,
		"endpoint", flags.httpEndpoint,
	)
	return serveUntilDone(ctx,
		func() error { return oauthSrv.Start(flags.httpAddr) },
		oauthSrv.Shutdown,
	)
}
