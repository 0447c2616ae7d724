package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handlers *Handlers, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stocks/price", handlers.GetStockPrice)
	mux.HandleFunc("GET /stocks/alerts", handlers.ListAlerts)
	mux.HandleFunc("POST /stocks/alert", handlers.CreateAlert)
	mux.HandleFunc("DELETE /stocks/alert", handlers.DeleteAlert)
	mux.HandleFunc("GET /stocks/alert/check", handlers.CheckAlert)

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
