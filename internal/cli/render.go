package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/errors"
	"github.com/matzehuels/selfmap/pkg/identity"
	"github.com/matzehuels/selfmap/pkg/pipeline"
	"github.com/matzehuels/selfmap/pkg/render"
)

// chartOpts holds the command-line flags shared by render and drill.
// Zero values fall back to the loaded configuration.
type chartOpts struct {
	output      string   // output file (single format) or base path (multiple)
	formats     []string // output formats: "svg", "png", "pdf", "json", "dot"
	vizType     string   // "chart" or "nodelink"
	mode        string   // layout mode: "radial" or "bucketed"
	width       float64  // canvas width in pixels
	height      float64  // canvas height in pixels
	interactive bool     // embed hover and click behavior in SVG output
	embedFont   bool     // embed the label font in SVG output
	scale       float64  // PNG pixel scale
	noCache     bool     // bypass the local cache
	refresh     bool     // recompute and overwrite cached results
}

// bindChartFlags registers the shared chart flags on cmd.
func bindChartFlags(cmd *cobra.Command, opts *chartOpts, formatsStr *string) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.VizChart, "visualization type: chart, nodelink")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "layout mode: radial, bucketed (default from config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", true, "embed hover and click behavior in SVG output")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the label font in SVG output")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the local cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")
}

// renderCommand creates the render command for the primary chart.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts chartOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an identity map as a radial chart",
		Long: `Render an identity map (JSON or TOML) as the primary radial chart.
Without a file the built-in sample map is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("interactive") {
				opts.interactive = c.Config.Interactive
			}
			return c.runRender(cmd.Context(), fileArg(args, 0), &opts)
		},
	}

	bindChartFlags(cmd, &opts, &formatsStr)
	return cmd
}

// runRender loads the map at input and writes the primary chart.
func (c *CLI) runRender(ctx context.Context, input string, opts *chartOpts) error {
	logger := loggerFromContext(ctx)

	m, err := loadData(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d categories from %s", m.Len(), displayName(input))

	popts := c.pipelineOptions(pipeline.RolePrimary, opts)
	if opts.interactive {
		popts.Links = drillLink
	}
	return c.execute(ctx, m, popts, opts, basePath(opts.output, input, "selfmap"))
}

// drillLink targets the drill-down chart file of a category next to the
// primary chart.
func drillLink(name string) string {
	return slugify(name) + ".svg"
}

// pipelineOptions merges flags and configuration into pipeline options.
func (c *CLI) pipelineOptions(role string, opts *chartOpts) pipeline.Options {
	cfg := c.Config
	dims := cfg.PrimaryDimensions()
	mode := cfg.Mode
	if role == pipeline.RoleSecondary {
		dims = cfg.SecondaryDimensions()
		mode = cfg.SecondaryMode
	}
	if opts.width > 0 {
		dims.Width = opts.width
	}
	if opts.height > 0 {
		dims.Height = opts.height
	}
	if opts.mode != "" {
		mode = opts.mode
	}
	margin := dims.Margin
	return pipeline.Options{
		Role:        role,
		Mode:        mode,
		Width:       dims.Width,
		Height:      dims.Height,
		Margin:      &margin,
		VizType:     opts.vizType,
		Formats:     opts.formats,
		Interactive: opts.interactive,
		EmbedFont:   opts.embedFont,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
	}
}

// execute runs the pipeline and writes every artifact under base.
func (c *CLI) execute(ctx context.Context, m *identity.Map, popts pipeline.Options, opts *chartOpts, base string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Rendering "+strings.Join(popts.Formats, ", ")+"...")
	spin.Start()
	result, err := runner.Execute(ctx, m, popts)
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, popts.Formats, opts.output, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(paths)))

	printSuccess("Rendered %s", StyleHighlight.Render(chartLabel(popts)))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Entries, len(paths), result.CacheInfo.LayoutHit, result.CacheInfo.RenderHit)
	return nil
}

// chartLabel names a chart for status output.
func chartLabel(o pipeline.Options) string {
	if o.Title != "" {
		return o.Title
	}
	if o.Role == pipeline.RoleSecondary {
		return render.Secondary.Title(o.Category)
	}
	return render.Primary.Title("")
}

// writeArtifacts writes artifacts in format order. A single format goes to
// output when set; otherwise each format goes to base.<format>.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	var paths []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// basePath derives the base output path. An output with a known format
// extension loses it; no output falls back to the input name, then to
// fallback.
func basePath(output, input, fallback string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != "" {
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return fallback
}

// slugify turns a category name into a file-name-safe token.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func displayName(input string) string {
	if input == "" {
		return "sample"
	}
	return input
}

// drillCommand creates the drill command for a category's drill-down chart.
func (c *CLI) drillCommand() *cobra.Command {
	var formatsStr string
	var seed uint64
	var opts chartOpts

	cmd := &cobra.Command{
		Use:   "drill <category> [file]",
		Short: "Render the drill-down chart of one category",
		Long: `Render the secondary chart of a category's sub-aspects. Curated
categories (` + strings.Join(drilldown.Categories(), ", ") + `) use their
own sub-aspects; any other name gets placeholder points.`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			return drilldown.Categories(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Seed
			}
			return c.runDrill(cmd.Context(), args[0], fileArg(args, 1), seed, &opts)
		},
	}

	bindChartFlags(cmd, &opts, &formatsStr)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "drill-down random seed (default from config)")
	return cmd
}

// runDrill expands category and writes its secondary chart. The category
// need not be in the map at input; the map only provides the warning.
func (c *CLI) runDrill(ctx context.Context, category, input string, seed uint64, opts *chartOpts) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateCategoryName(category); err != nil {
		return err
	}
	m, err := loadData(input)
	if err != nil {
		return err
	}
	if !m.Has(category) {
		printWarning("%q is not a category of %s", category, displayName(input))
	}
	if !drilldown.Known(category) {
		printDetail("No curated sub-aspects; using placeholders")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	detail, err := runner.Expand(ctx, category, seed)
	runner.Close()
	if err != nil {
		return err
	}
	logger.Debug("expanded category", "category", category, "seed", seed, "aspects", detail.Len())

	popts := c.pipelineOptions(pipeline.RoleSecondary, opts)
	popts.Category = category
	if err := c.execute(ctx, detail, popts, opts, basePath(opts.output, "", slugify(category))); err != nil {
		return err
	}
	if slices.Contains(opts.formats, pipeline.FormatSVG) && m.Has(category) {
		printNextStep("Explore interactively", strings.TrimSpace(appName+" explore "+input))
	}
	return nil
}
