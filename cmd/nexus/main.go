package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	nexuscmd "github.com/lorekeep/nexus/internal/cmd/nexus"
	"github.com/lorekeep/nexus/internal/platform/config"
)

func main() {
	cfg, err := nexuscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[NEXUS] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := nexuscmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
