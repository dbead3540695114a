package main

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/swipekit-dev/swipekit/pkg/middleware"
	"github.com/swipekit-dev/swipekit/pkg/server"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

//go:embed static
var staticFS embed.FS

func serveCmd() *cobra.Command {
	var (
		addr     string
		logLevel string
		metrics  bool
		rows     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo list server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			srv := server.New(server.Config{
				Addr:         addr,
				Logger:       logger,
				Metrics:      metrics,
				SetupSession: setupDemoRows(rows, logger),
			})
			if metrics {
				srv.Use(middleware.Prometheus())
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := chi.NewRouter()
			router.Handle("/static/*", http.FileServer(http.FS(staticFS)))
			router.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/static/index.html", http.StatusFound)
			})
			router.Mount("/sk", srv.Router())

			httpSrv := &http.Server{Addr: addr, Handler: router}
			go func() {
				<-ctx.Done()
				srv.Sessions().CloseAll()
				httpSrv.Shutdown(context.Background())
			}()

			logger.Info("demo server listening", "addr", addr)
			if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().IntVar(&rows, "rows", 8, "number of demo rows")
	return cmd
}

// setupDemoRows populates each new session with swipeable demo rows:
// a left "archive" reveal and a right "delete" reveal that supports
// full-swipe completion.
func setupDemoRows(count int, logger *slog.Logger) func(*server.Session) {
	return func(s *server.Session) {
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("row-%d", i)
			row := s.AddRow(id, server.RowConfig{
				Width:         360,
				Height:        56,
				LeftWidth:     96,
				RightWidth:    96,
				CompleteRight: true,
			})
			rowID := id
			row.OnComplete = func(side swipe.Side) {
				logger.Info("row completed", "row", rowID, "side", side)
			}
			row.OnRelease = func(action swipe.ReleaseAction) {
				logger.Debug("release", "row", rowID, "action", action)
			}
		}
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
