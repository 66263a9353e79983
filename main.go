package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onetable/config"
	"onetable/executor"
	"onetable/repl"
	"onetable/server"
	"onetable/storage"
)

func main() {
	cfg := config.Parse()

	reg, err := storage.OpenRegistry(cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Serve {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		if err := runServer(cfg, reg, sigCh); err != nil {
			log.Fatal(err)
		}
	} else {
		runShell(cfg, reg)
	}

	if err := reg.FlushAll(); err != nil {
		log.Printf("flush: %v", err)
		os.Exit(1)
	}
}

// runShell drives the interactive loop on stdin until EXIT or EOF.
func runShell(cfg *config.Config, reg *storage.Registry) {
	sess := executor.NewSession(reg)
	r := repl.New(sess, os.Stdin, os.Stdout, os.Stderr, cfg.LogLevel)
	if err := r.Run(); err != nil {
		log.Fatal(err)
	}
}

// runServer serves the TCP line protocol until a signal arrives on sigCh.
// It returns only after Shutdown has drained the live connections, so the
// caller's flush sees every command those connections executed.
func runServer(cfg *config.Config, reg *storage.Registry, sigCh <-chan os.Signal) error {
	srv, err := server.New(cfg, reg)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := <-sigCh
		log.Printf("received %v, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	// ListenAndServe returns as soon as Shutdown closes the listener,
	// while the connection drain is still in flight.
	if err := srv.ListenAndServe(); err != nil {
		return err
	}
	<-done
	return nil
}
