package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/mind-engage/interview-coach/internal/api/http"
	authmw "github.com/mind-engage/interview-coach/internal/auth/middleware"
	"github.com/mind-engage/interview-coach/internal/config"
	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/interview"
	"github.com/mind-engage/interview-coach/internal/questionbank"
	"github.com/mind-engage/interview-coach/internal/storage"
	syncx "github.com/mind-engage/interview-coach/internal/sync"
)

func serveCMD() *cobra.Command {
	var addr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			a, err := newApp(openCtx)
			cancel()
			if err != nil {
				return err
			}
			defer a.Close()
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}
			return runServer(ctx, a)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return serve
}

func runServer(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	bank, err := questionbank.Load(cfg.QuestionBankPath)
	if err != nil {
		return err
	}
	syn, err := grading.LoadSynonyms(cfg.SynonymsPath)
	if err != nil {
		return err
	}
	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return err
	}
	var events interview.EventSink
	if a.db != nil {
		events = syncx.NewEventRepo(a.db, cfg.SiteID)
	}

	svc := interview.NewService(bank, syn, a.store, events, blobs, log, interview.Options{
		QuestionsPerInterview: cfg.QuestionsPerInterview,
		IncludeNameQuestion:   cfg.IncludeNameQuestion,
		ExcludeVariations:     cfg.ExcludeVariations,
	})

	rc := api.RouterConfig{
		Service:       svc,
		Log:           log,
		Reviewer:      authmw.Credentials{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		SecureCookies: cfg.Mode == config.ModeOnline,
	}
	if cfg.EnableAuth {
		rc.Auth = authmw.NewAuthService(cfg.AuthHMACSecret)
	}
	if a.db != nil {
		rc.Ready = a.db.PingContext
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(api.NewRouter(rc))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver),
			zap.Int("bank_size", bank.Len()),
			zap.Bool("auth", cfg.EnableAuth))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
