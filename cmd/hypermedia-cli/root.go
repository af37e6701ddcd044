package main

import (
	"io"
	"os"

	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-hypermedia/pkg/config"
	"github.com/goliatone/go-hypermedia/pkg/logging"
)

// flagKeys maps command flags onto configuration keys so flags become the
// last configuration layer.
var flagKeys = map[string]string{
	"title":          "title",
	"format":         "format",
	"manifest":       "manifest",
	"descriptions":   "descriptions",
	"preset":         "preset",
	"property-names": "property_names",
	"stylesheet":     "stylesheets",
	"untagged-group": "untagged_group",
	"log-format":     "log.format",
}

type app struct {
	configFile string
	verbosity  int

	stdout   io.Writer
	stderr   io.Writer
	environ  []string
	prompter Prompter

	cfg    config.Config
	koanf  *koanf.Koanf
	logger zerolog.Logger
}

func newApp() *app {
	return &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		prompter: surveyPrompter{},
		logger:   zerolog.Nop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hypermedia-cli",
		Short: "Render hypermedia API index pages",
		Long: `hypermedia-cli renders route metadata as microdata annotated HTML.
Routes come from an OpenAPI document or a YAML route manifest; each route
becomes a link or a form a client can follow without prior knowledge.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.Flags())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.String("log-format", "", "log output format: console or json")

	root.AddCommand(newDocsCmd(a), newConfigCmd(a))
	return root
}

func (a *app) loadConfig(flags *pflag.FlagSet) error {
	overrides := map[string]any{}
	flags.Visit(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok {
			return
		}
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			overrides[key] = slice.GetSlice()
			return
		}
		overrides[key] = flag.Value.String()
	})
	if a.verbosity > 0 {
		overrides["log.level"] = logging.Verbosity(a.verbosity)
	}

	opts := config.LoadOptions{File: a.configFile, Environ: a.environ, Overrides: overrides}
	k, err := config.Koanf(opts)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: a.stderr})
	if err != nil {
		return err
	}
	a.cfg, a.koanf, a.logger = cfg, k, logger
	a.logger.Debug().Str("config", a.configFile).Msg("configuration loaded")
	return nil
}
