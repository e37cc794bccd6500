package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	registercmd "github.com/louisbranch/roster.space/internal/cmd/register"
	"github.com/louisbranch/roster.space/internal/platform/config"
)

func main() {
	cfg, err := registercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[REGISTER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := registercmd.Run(ctx, cfg); err != nil {
		config.Exitf("register commands: %v", err)
	}
}
