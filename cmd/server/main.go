// Command main is the entry point for the CampusBoard API server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusboard/internal/bootstrap"
	"campusboard/internal/notifications"
	"campusboard/internal/server"
)

func main() {
	rt, err := bootstrap.Init("campusboard-api", "1.0.0")
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(rt.Config, rt.DB, rt.Redis)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	subCtx, cancelSub := context.WithCancel(context.Background())
	defer cancelSub()

	// In development, tap the notification channels so dispatched events show
	// up in the server log without a separate consumer.
	if rt.Config.Env == "development" && rt.Redis != nil {
		notifier := notifications.NewNotifier(rt.Redis)
		if err := notifier.StartPatternSubscriber(subCtx, func(channel, payload string) {
			slog.Info("notification published",
				slog.String("channel", channel),
				slog.String("payload", payload))
		}); err != nil {
			log.Printf("Notification tap unavailable: %v", err)
		}
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		cancelSub()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := rt.Shutdown(ctx); err != nil {
			log.Printf("Runtime shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
