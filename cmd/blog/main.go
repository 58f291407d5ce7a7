package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("blog: %v", err)
	}
}

func run(ctx context.Context) error {
	env, err := bootstrap.LoadEnv(nil)
	if err != nil {
		return err
	}

	scheduler := bootstrap.NewScheduler(nil)
	module, err := bootstrap.BuildModule(ctx, env, di.WithCronRegistrar(scheduler.Register))
	if err != nil {
		return err
	}
	defer module.Close()
	scheduler.SetLogger(module.Logger)

	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              env.Addr,
		Handler:           module.Module.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(ctx, server, module, env.ShutdownTimeout)
}

func serve(ctx context.Context, server *http.Server, module *bootstrap.Module, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		module.Logger.Info("blog.http.listening", "addr", server.Addr, "storage", module.Env.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	module.Logger.Info("blog.http.shutdown")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
