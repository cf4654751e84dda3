package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const usage = `formbind - read and write the values bound to an HTML form.

Usage:
  formbind <command> --in page.html [options]

Commands:
  extract      print the value object of the page
  inject       write a value object into the page
  fill         prompt for every top-level field and write the answers
  add-row      append rows to a repeating group
  clear-rows   remove every row of a repeating group
  remove-row   remove the row holding a named control

Run "formbind <command> -h" for the options of a command.

--save and --restore use the sqlite file at storage.path and the session
named by storage.session (default "formbind"). Without storage.path the
values are dropped when the command exits.
`

// options holds every flag; each command reads the ones it declares.
type options struct {
	in        string
	scope     string
	out       string
	output    string
	values    string
	errors    string
	group     string
	count     int
	name      string
	value     string
	rowTag    string
	save      string
	restore   string
	config    string
	logLevel  string
	logFormat string
}

type command struct {
	name  string
	flags func(fs *flag.FlagSet, o *options)
	check func(o *options) error
	run   func(ctx context.Context, e *env, o *options) error
}

var commands = []command{
	{
		name: "extract",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.output, "output", "json", "Output format: json or yaml.")
			fs.StringVar(&o.save, "save", "", "Also store the values under this key in the storage.session session.")
		},
		check: func(o *options) error {
			switch strings.ToLower(o.output) {
			case "json", "yaml":
				return nil
			default:
				return usageError("invalid --output %q: must be json or yaml", o.output)
			}
		},
		run: runExtract,
	},
	{
		name: "inject",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.values, "values", "", "JSON or YAML value file.")
			fs.StringVar(&o.restore, "restore", "", "Read the values from the session key instead of a file.")
			fs.StringVar(&o.errors, "errors", "", "JSON error payload (path -> messages) to show in the message area.")
			fs.StringVar(&o.out, "out", "", "Write the page here instead of stdout.")
		},
		check: func(o *options) error {
			if o.values == "" && o.restore == "" && o.errors == "" {
				return usageError("inject: one of --values, --restore or --errors is required")
			}
			if o.values != "" && o.restore != "" {
				return usageError("inject: --values and --restore are exclusive")
			}
			return nil
		},
		run: runInject,
	},
	{
		name: "fill",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.out, "out", "", "Write the page here instead of stdout.")
		},
		run: runFill,
	},
	{
		name: "add-row",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.group, "group", "", "Group id (the container id).")
			fs.StringVar(&o.values, "values", "", "JSON or YAML list of row records.")
			fs.IntVar(&o.count, "count", 0, "Append this many empty rows instead.")
			fs.StringVar(&o.out, "out", "", "Write the page here instead of stdout.")
		},
		check: requireGroup,
		run:   runAddRow,
	},
	{
		name: "clear-rows",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.group, "group", "", "Group id (the container id).")
			fs.StringVar(&o.out, "out", "", "Write the page here instead of stdout.")
		},
		check: requireGroup,
		run:   runClearRows,
	},
	{
		name: "remove-row",
		flags: func(fs *flag.FlagSet, o *options) {
			fs.StringVar(&o.name, "name", "", "Control name, e.g. detail.chk.")
			fs.StringVar(&o.value, "value", "", "Control value to match.")
			fs.StringVar(&o.rowTag, "row-tag", "", "Row element tag (default from config).")
			fs.StringVar(&o.out, "out", "", "Write the page here instead of stdout.")
		},
		check: func(o *options) error {
			if strings.TrimSpace(o.name) == "" || strings.TrimSpace(o.value) == "" {
				return usageError("remove-row: --name and --value are required")
			}
			return nil
		},
		run: runRemoveRow,
	},
}

func requireGroup(o *options) error {
	if strings.TrimSpace(o.group) == "" {
		return usageError("--group is required")
	}
	return nil
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		if len(args) == 0 {
			return &ExitError{Code: 2, Message: "missing command"}
		}
		return nil
	}

	cmd, ok := lookup(args[0])
	if !ok {
		return usageError("unknown command %q", args[0])
	}

	var o options
	fs := flag.NewFlagSet("formbind "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&o.in, "in", "", "HTML page to read.")
	fs.StringVar(&o.scope, "scope", "", "Id of the element to bind (default: the body).")
	fs.StringVar(&o.config, "config", "", "Config file (default $FORMBIND_CONFIG or ~/.config/formbind/config).")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error.")
	fs.StringVar(&o.logFormat, "log-format", "", "Log format: text or json.")
	if cmd.flags != nil {
		cmd.flags(fs, &o)
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError("%v", err)
	}
	if fs.NArg() > 0 {
		return usageError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(o.in) == "" {
		return usageError("--in is required")
	}
	if cmd.check != nil {
		if err := cmd.check(&o); err != nil {
			return err
		}
	}

	e, err := newEnv(out, errOut, &o)
	if err != nil {
		return err
	}
	defer e.close()

	return cmd.run(ctx, e, &o)
}
