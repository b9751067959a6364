package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

// DefaultEnvFile is read from the working directory on every run.
const DefaultEnvFile = ".env"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch. It is called for every
// command, logged in or not.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
	envFile  string
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		envFile:  DefaultEnvFile,
	}
}

// SetInput sets the reader that prompting commands read from. Defaults to stdin.
func (d *Dispatcher) SetInput(in io.Reader) { d.in = in }

// SetEnvFile sets the .env file applied over config.toml. Empty disables it.
func (d *Dispatcher) SetEnvFile(path string) { d.envFile = path }

// Run parses arguments and dispatches to the appropriate command.
// No arguments runs "list". Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name, rest := "list", []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	// Flags require a command in front of them
	cmd, ok := d.registry.Find(name)
	if strings.HasPrefix(name, "-") || !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, rest, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	noColor   bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
	fs.BoolVar(&f.noColor, "no-color", false, "")
}

// flagError rewrites a flag package parse error into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return msg
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.Load(d.envFile); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.NoColor = cfg.NoColor || common.noColor
	cfg.Logger = logging.New(errOut, common.debug)

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: backend error: no service configured")
		return exitcode.BackendError
	}
	svc, err := d.factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	if r, ok := cmd.(commands.InputReader); ok && d.in != nil {
		r.SetInput(d.in)
	}
	if cmd.NeedsAuth() && !cfg.Quiet {
		greet(ctx, cfg, svc, errOut)
	}

	// Run command
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// greet prints the welcome line once per session. A failure only skips it.
func greet(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) {
	if !svc.LoggedIn() || svc.Greeted() {
		return
	}
	prof, err := svc.Profile(ctx)
	if err != nil {
		cfg.Logger.Debug("skipping welcome", "err", err)
		return
	}
	fmt.Fprintf(errOut, "Welcome back, %s!\n", prof.DisplayName())
	if err := svc.MarkGreeted(); err != nil {
		cfg.Logger.Warn("failed to record welcome", "err", err)
	}
}
