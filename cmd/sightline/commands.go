package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Azhovan/sightline"
	"github.com/Azhovan/sightline/internal/logging"
	"github.com/Azhovan/sightline/sourceargs"
	"github.com/Azhovan/sightline/sourceenv"
	"github.com/Azhovan/sightline/sourcefile"
)

var errNotFound = errors.New("property not found")

type rootOptions struct {
	files     []string
	envPrefix string
	noEnv     bool
	strict    bool
	logLevel  string
	logFormat string
	logFile   string

	environ []string
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	closer  io.Closer
}

func newRootCmd(stdout, stderr io.Writer, environ []string) *cobra.Command {
	opts := &rootOptions{environ: environ, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "sightline",
		Short: "Resolve configuration properties and show where they came from",
		Long: `sightline resolves a property name against command line options,
environment variables and configuration files, in that order of precedence.
Names match across conventions: server.port, server-port, SERVER_PORT and
serverPort are the same property.

Options after "--" are treated as property overrides, e.g.
  sightline get server.port -- --server.port=9090`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger, opts.closer = logging.New(logging.Config{
				Level:  opts.logLevel,
				Format: opts.logFormat,
				File:   opts.logFile,
			}, opts.stderr)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closer != nil {
				return opts.closer.Close()
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "Configuration file (repeatable; earlier files win)")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "Only use environment variables with this prefix (stripped)")
	flags.BoolVar(&opts.noEnv, "no-env", false, "Ignore environment variables")
	flags.BoolVar(&opts.strict, "strict", false, "Reject malformed property names instead of reporting not found")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "json", "Log format: json or text")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	rootCmd.AddCommand(
		newGetCmd(opts),
		newOriginCmd(opts),
		newDumpCmd(opts),
		newExpandCmd(opts),
		newSnapshotCmd(opts),
	)

	return rootCmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME [-- OPTIONS...]",
		Short: "Print the resolved value of a property",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, overrides := splitAtDash(cmd, args)
			if len(positional) != 1 {
				return fmt.Errorf("expected exactly one property name, got %d", len(positional))
			}

			p, err := opts.find(positional[0], overrides)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(opts.stdout, p.Value)
			return err
		},
	}
}

func newOriginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "origin NAME [-- OPTIONS...]",
		Short: "Print where the resolved value of a property came from",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, overrides := splitAtDash(cmd, args)
			if len(positional) != 1 {
				return fmt.Errorf("expected exactly one property name, got %d", len(positional))
			}

			p, err := opts.find(positional[0], overrides)
			if err != nil {
				return err
			}
			origin := p.Source
			if p.Origin != nil {
				origin = p.Origin.String()
			}
			_, err = fmt.Fprintln(opts.stdout, origin)
			return err
		},
	}
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON  bool
		origins bool
		redact  []string
	)

	cmd := &cobra.Command{
		Use:   "dump [-- OPTIONS...]",
		Short: "Print every effective property",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, overrides := splitAtDash(cmd, args)
			env, err := opts.environment(overrides)
			if err != nil {
				return err
			}

			dumpOpts := []sightline.DumpOption{sightline.WithRedactedNames(redact...)}
			if asJSON {
				dumpOpts = append(dumpOpts, sightline.AsJSON())
			}
			if origins {
				dumpOpts = append(dumpOpts, sightline.WithOrigins())
			}
			return sightline.DumpEffective(opts.stdout, env, dumpOpts...)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&origins, "origins", false, "Include the origin of each value")
	cmd.Flags().StringSliceVar(&redact, "redact", nil, "Property names whose values are hidden")
	return cmd
}

func newExpandCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expand TEXT [-- OPTIONS...]",
		Short: "Replace ${name} and ${name:default} placeholders in TEXT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, overrides := splitAtDash(cmd, args)
			if len(positional) != 1 {
				return fmt.Errorf("expected exactly one text argument, got %d", len(positional))
			}

			env, err := opts.environment(overrides)
			if err != nil {
				return err
			}
			out, err := env.Resolver(sightline.WithLogger(opts.logger)).Expand(positional[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(opts.stdout, out)
			return err
		},
	}
}

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		out     string
		secrets []string
	)

	cmd := &cobra.Command{
		Use:   "snapshot --out PATH [-- OPTIONS...]",
		Short: "Write every effective property and its origin to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, overrides := splitAtDash(cmd, args)
			env, err := opts.environment(overrides)
			if err != nil {
				return err
			}

			snap, err := sightline.CreateSnapshot(env, sightline.WithSecretNames(secrets...))
			if err != nil {
				return err
			}
			path, err := sightline.WriteSnapshot(snap, out)
			if err != nil {
				return err
			}
			opts.logger.Info("snapshot written",
				slog.String("path", path),
				slog.Int("properties", len(snap.Properties)),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "sightline-{{timestamp}}.json", "Snapshot path; {{timestamp}} is expanded")
	cmd.Flags().StringSliceVar(&secrets, "secret", nil, "Property names whose values are redacted")
	return cmd
}

// environment builds the source list: overrides, then environment variables,
// then files in flag order.
func (o *rootOptions) environment(overrides []string) (*sightline.Environment, error) {
	env := sightline.NewEnvironment()

	if len(overrides) > 0 {
		env.AddLast(sourceargs.New(overrides))
	}
	if !o.noEnv {
		env.AddLast(sourceenv.New(sourceenv.Options{Prefix: o.envPrefix, Environ: o.environ}))
	}
	for _, path := range o.files {
		src, err := sourcefile.New(path, sourcefile.Options{Required: true, Name: "file:" + path})
		if err != nil {
			return nil, err
		}
		if skipped := src.Skipped(); len(skipped) > 0 {
			o.logger.Warn("skipped keys without a canonical name",
				slog.String("source", src.Name()),
				slog.Any("keys", skipped),
			)
		}
		env.AddLast(src)
	}

	o.logger.Debug("sources ready", slog.Int("count", env.Len()))
	return env, nil
}

func (o *rootOptions) find(raw string, overrides []string) (sightline.Property, error) {
	env, err := o.environment(overrides)
	if err != nil {
		return sightline.Property{}, err
	}
	r := env.Resolver(sightline.WithLogger(o.logger))

	var (
		p  sightline.Property
		ok bool
	)
	if o.strict {
		p, ok, err = r.FindStrict(raw)
		if err != nil {
			return sightline.Property{}, err
		}
	} else {
		p, ok = r.Find(raw)
	}
	if !ok {
		return sightline.Property{}, fmt.Errorf("%w: %s", errNotFound, raw)
	}
	return p, nil
}

// splitAtDash separates positional arguments from the options after "--".
func splitAtDash(cmd *cobra.Command, args []string) ([]string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}
