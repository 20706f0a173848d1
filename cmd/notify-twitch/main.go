package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/desk-notify/pkg/app"
	"github.com/Veraticus/desk-notify/pkg/config"
	"github.com/Veraticus/desk-notify/pkg/schedule"
	"github.com/Veraticus/desk-notify/pkg/twitch"
)

type options struct {
	configPath string
	debug      bool
	force      bool
	once       bool
	interval   time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("notify-twitch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVarP(&opts.force, "force", "f", false, "Notify about every live streamer, even if already notified")
	fs.BoolVar(&opts.once, "once", false, "Check once and exit")
	fs.DurationVar(&opts.interval, "interval", 0, "Time between checks (default from config, 5m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.interval < 0 {
		return nil, errors.New("--interval must be positive")
	}
	return opts, nil
}

// apply overrides the loaded configuration with command line flags
func (o *options) apply(cfg *config.Config) {
	if o.debug {
		cfg.Debug = true
	}
	if o.force {
		cfg.Twitch.Force = true
	}
	if o.interval > 0 {
		cfg.Twitch.Interval = o.interval
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
	opts.apply(cfg)

	deps := app.NewDependencies(cfg, stderr)
	log := deps.Logger("twitch")

	tc := cfg.Twitch
	watcher := twitch.NewWatcher(
		tc,
		deps.Fs,
		twitch.NewFetcher(tc.BaseURL, tc.Timeout),
		twitch.NewProber(tc.BaseURL, tc.Timeout, tc.ProbeAttempts, tc.ProbeDelay, deps.Logger("probe")),
		deps.NotificationManager,
		log,
	)

	ctx, stop := app.SignalContext()
	defer stop()

	if opts.once {
		return app.ExitCode(log, watcher.Check(ctx))
	}

	log.Info().Dur("interval", tc.Interval).Str("streamers", tc.StreamersFile).Msg("watching")
	return app.ExitCode(log, watcher.Run(ctx, schedule.New(tc.Interval)))
}
