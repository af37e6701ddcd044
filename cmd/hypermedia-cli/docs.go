package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	hypermedia "github.com/goliatone/go-hypermedia"
	"github.com/goliatone/go-hypermedia/pkg/doctext"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/orchestrator"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

type docsFlags struct {
	groups      []string
	actions     []string
	exclude     []string
	methods     string
	interactive bool
	output      string
	csrfToken   string
}

func newDocsCmd(a *app) *cobra.Command {
	var flags docsFlags
	cmd := &cobra.Command{
		Use:   "docs [source]",
		Short: "Render the API index of an OpenAPI document or route manifest",
		Long: `Render the API index page. The source is an OpenAPI file path or
http(s) URL; without one the configured source or --manifest is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := a.cfg.Source
			if len(args) == 1 {
				source = args[0]
			}
			return a.runDocs(cmd.Context(), source, flags)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&flags.groups, "group", "g", nil, "render only matching groups (glob)")
	f.StringSliceVarP(&flags.actions, "action", "a", nil, "render only matching group.action ids (glob)")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "skip matching group.action ids (glob)")
	f.StringVar(&flags.methods, "method", "", "render only actions using these HTTP verbs (comma separated)")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "pick groups interactively")
	f.StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	f.StringVar(&flags.csrfToken, "csrf-token", "", "value for the configured CSRF form field")
	f.String("title", "", "document title")
	f.String("format", "", "output format: html or xhtml")
	f.String("manifest", "", "YAML route manifest used when no OpenAPI source is given")
	f.String("descriptions", "", "directory of description files (.yaml, .yml, .json)")
	f.String("preset", "", "JSON preset applied to the index")
	f.String("property-names", "", "itemprop naming policy: lower-camel, kebab, snake or verbatim")
	f.StringSlice("stylesheet", nil, "stylesheet URL injected into the head")
	f.String("untagged-group", "", "group name for untagged OpenAPI operations")
	return cmd
}

func (a *app) runDocs(ctx context.Context, source string, flags docsFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg

	provider, title, err := a.routeProvider(ctx, source)
	if err != nil {
		return err
	}

	descriptions := doctext.Chain{}
	if dir := strings.TrimSpace(cfg.Descriptions); dir != "" {
		store, err := doctext.LoadFS(os.DirFS(dir))
		if err != nil {
			return err
		}
		a.logger.Debug().Int("entries", store.Len()).Str("dir", dir).Msg("descriptions loaded")
		descriptions = append(descriptions, store)
	}
	if docs, ok := provider.(doctext.Provider); ok {
		descriptions = append(descriptions, docs)
	}

	renderOptions, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	if title != "" && cfg.Title == "" {
		renderOptions = append([]render.ConfigOption{render.WithTitle(title)}, renderOptions...)
	}

	options := []orchestrator.Option{
		orchestrator.WithProvider(provider),
		orchestrator.WithDescriptions(descriptions),
		orchestrator.WithRenderDefaults(renderOptions...),
		orchestrator.WithDocOptions(cfg.DocOptions(flags.csrfToken)...),
		orchestrator.WithLogger(a.logger),
	}
	if preset := strings.TrimSpace(cfg.Preset); preset != "" {
		transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithTransformer(transformer))
	}

	subset := orchestrator.Subset{
		Groups:  flags.groups,
		Actions: flags.actions,
		Exclude: flags.exclude,
		Methods: route.ParseTokenList(flags.methods),
	}
	if flags.interactive {
		if subset.Groups, err = a.selectGroups(ctx, provider); err != nil {
			return err
		}
	}

	page, err := hypermedia.NewOrchestrator(options...).Generate(ctx, orchestrator.Request{
		Subset: subset,
		Format: orchestrator.Format(cfg.Format),
	})
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = a.stdout.Write(page)
		return err
	}
	if err := os.WriteFile(flags.output, page, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info().Str("output", flags.output).Int("bytes", len(page)).Msg("index written")
	return nil
}

// routeProvider returns the route source and, for OpenAPI documents, the
// document title.
func (a *app) routeProvider(ctx context.Context, source string) (route.Provider, string, error) {
	if strings.TrimSpace(source) == "" {
		if manifest := strings.TrimSpace(a.cfg.Manifest); manifest != "" {
			return route.ManifestFile(manifest), "", nil
		}
		return nil, "", errors.New("an OpenAPI source or a route manifest is required")
	}

	src, err := pkgopenapi.ParseSource(source)
	if err != nil {
		return nil, "", err
	}
	provider, err := hypermedia.NewOpenAPIProvider(src, a.cfg.LoaderOptions(), a.cfg.ParserOptions()...)
	if err != nil {
		return nil, "", err
	}
	spec, err := provider.Spec(ctx)
	if err != nil {
		return nil, "", err
	}
	a.logger.Debug().Str("source", source).Int("groups", len(spec.Groups)).Msg("document parsed")
	return provider, spec.Title, nil
}

func (a *app) selectGroups(ctx context.Context, provider route.Provider) ([]string, error) {
	groups, err := provider.Groups(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(groups))
	defaults := make([]int, len(groups))
	for i, group := range groups {
		names[i], defaults[i] = group.Name, i
	}
	picked, err := a.prompter.MultiSelect(ctx, SelectConfig{
		Message:  "Groups to render",
		Options:  names,
		Defaults: defaults,
	})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, errors.New("no groups selected")
	}
	patterns := make([]string, 0, len(picked))
	for _, idx := range picked {
		patterns = append(patterns, escapePattern(names[idx]))
	}
	return patterns, nil
}

var patternEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

func escapePattern(name string) string {
	return patternEscaper.Replace(name)
}
