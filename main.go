package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"hidetext/diff"
	"hidetext/hide"
	"hidetext/parallel"
	"hidetext/reveal"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers  int    `help:"Number of parallel workers, 0 uses every CPU and 1 renders sequentially" default:"0" env:"HIDETEXT_WORKERS"`
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"HIDETEXT_LOG_LEVEL"`

	Hide   hide.CLICmd   `cmd:"" help:"Hide text in the red and blue low bits of an image"`
	Reveal reveal.CLICmd `cmd:"" help:"Read text hidden in an image"`
	Diff   diff.CLICmd   `cmd:"" help:"Measure how much two images differ"`
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("hidetext"),
		kong.Description("Hide text in the least significant bits of an image."),
		kong.UsageOnError(),
	)
	setupLogging(cli.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := parallel.Start(cli.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Size)

	kctx.BindTo(ctx, (*context.Context)(nil))
	err := kctx.Run(pool)
	pool.Wait(true)
	kctx.FatalIfErrorf(err)
}
