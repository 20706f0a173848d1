package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/desk-notify/pkg/app"
	"github.com/Veraticus/desk-notify/pkg/config"
	"github.com/Veraticus/desk-notify/pkg/notification"
	"github.com/Veraticus/desk-notify/pkg/usb"
)

type options struct {
	configPath string
	debug      bool
	sound      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("notify-usb", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVarP(&opts.sound, "sound", "s", false, "Enable sound on notification")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// apply overrides the loaded configuration with command line flags. The
// usb section decides whether and how sounds are played.
func (o *options) apply(cfg *config.Config) {
	if o.debug {
		cfg.Debug = true
	}
	if o.sound {
		cfg.USB.Sound = true
	}
	cfg.Notifier.Sound = cfg.USB.Sound
	if cfg.USB.Player != "" {
		cfg.Notifier.Player = cfg.USB.Player
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

	deps := app.NewDependencies(cfg, stderr,
		notification.WithSoundLimiter(notification.NewIntervalLimiter(cfg.USB.SoundWindow, nil)),
	)
	log := deps.Logger("usb")

	ctx, stop := app.SignalContext()
	defer stop()

	source := usb.NewUdevSource("usb", cfg.USB.DevType)
	watcher := usb.NewWatcher(cfg.USB, source, deps.NotificationManager, log)

	log.Info().Bool("sound", cfg.Notifier.Sound).Msg("watching")
	return app.ExitCode(log, watcher.Run(ctx))
}
