package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/desk-notify/pkg/app"
	"github.com/Veraticus/desk-notify/pkg/config"
	"github.com/Veraticus/desk-notify/pkg/frigate"
	"github.com/Veraticus/desk-notify/pkg/notification"
)

type options struct {
	configPath string
	debug      bool
	broker     string
	port       int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("notify-frigate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: notify-frigate [OPTIONS] IP")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.IntVarP(&opts.port, "port", "p", 0, "MQTT broker port (default from config, 1883)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.broker = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	return opts, nil
}

// apply overrides the loaded configuration with command line flags
func (o *options) apply(cfg *config.Config) error {
	if o.debug {
		cfg.Debug = true
	}
	if o.broker != "" {
		cfg.Frigate.Broker = o.broker
	}
	if o.port != 0 {
		cfg.Frigate.Port = o.port
	}
	if cfg.Frigate.Broker == "" {
		return errors.New("broker IP is required")
	}
	if cfg.Frigate.Port < 1 || cfg.Frigate.Port > 65535 {
		return fmt.Errorf("port %d is out of range", cfg.Frigate.Port)
	}
	return nil
}

// managerOptions rate limits notifications when a burst is configured
func managerOptions(cfg config.FrigateConfig) []notification.Option {
	if cfg.Burst <= 0 {
		return nil
	}
	return []notification.Option{
		notification.WithRateLimiter(notification.NewTokenBucketRateLimiter(cfg.Burst, cfg.Refill, nil)),
	}
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if err := opts.apply(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	deps := app.NewDependencies(cfg, stderr, managerOptions(cfg.Frigate)...)
	log := deps.Logger("frigate")

	ctx, stop := app.SignalContext()
	defer stop()

	sub := frigate.NewMQTTSubscriber(cfg.Frigate, deps.Logger("mqtt"))
	defer sub.Close()

	log.Info().Str("broker", cfg.Frigate.Broker).Int("port", cfg.Frigate.Port).Msg("connecting")
	if err := sub.Connect(ctx); err != nil {
		return app.ExitCode(log, fmt.Errorf("connect: %w", err))
	}

	watcher := frigate.NewWatcher(cfg.Frigate, sub, deps.Fs, deps.NotificationManager, log)
	return app.ExitCode(log, watcher.Run(ctx))
}
