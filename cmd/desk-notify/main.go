package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/desk-notify/pkg/app"
	"github.com/Veraticus/desk-notify/pkg/notification"
	"github.com/Veraticus/desk-notify/pkg/types"
)

type options struct {
	configPath  string
	debug       bool
	replaceFile string
	sound       string
	icon        string
	category    string
	subject     string
	body        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("desk-notify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: desk-notify [OPTIONS] SUBJECT [BODY]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&opts.replaceFile, "replace-file", "", "Replace the notification whose id is stored in this file")
	fs.StringVar(&opts.sound, "sound", "none", "Sound to play: add, remove, message or none")
	fs.StringVarP(&opts.icon, "icon", "i", "", "Icon name or path")
	fs.StringVarP(&opts.category, "category", "c", "", "Notification category")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 1:
		opts.subject = fs.Arg(0)
	case 2:
		opts.subject, opts.body = fs.Arg(0), fs.Arg(1)
	default:
		fs.Usage()
		return nil, errors.New("expected SUBJECT and optional BODY")
	}
	return opts, nil
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

	sound, err := types.ParseSound(opts.sound)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if opts.debug {
		cfg.Debug = true
	}

	deps := app.NewDependencies(cfg, stderr)

	err = deps.NotificationManager.Send(notification.Notification{
		Title:       opts.subject,
		Message:     opts.body,
		Icon:        opts.icon,
		Category:    opts.category,
		Sound:       sound,
		ReplaceFile: opts.replaceFile,
	})
	return app.ExitCode(deps.Log, err)
}
