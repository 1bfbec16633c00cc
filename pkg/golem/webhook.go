package golem

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultWebhookHost = "0.0.0.0"
	defaultWebhookPort = 8086
)

// serveWebhooks exposes the merged plugin route table over HTTP until ctx
// is done. Only started when at least one plugin registered a route.
func (g *Golem) serveWebhooks(ctx context.Context) error {
	host := strings.TrimSpace(g.cfg.Webhook.Host)
	if host == "" {
		host = defaultWebhookHost
	}
	port := g.cfg.Webhook.Port
	if port <= 0 {
		port = defaultWebhookPort
	}

	addr := host + ":" + strconv.Itoa(port)
	server := &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	g.log.Info("webhook server started", "address", addr, "routes", g.numRoutes)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook server: %w", err)
	}
	return nil
}
