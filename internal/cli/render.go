package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kleviz/pkg/errors"
	kio "github.com/matzehuels/kleviz/pkg/io"
	"github.com/matzehuels/kleviz/pkg/pipeline"
)

// galleryName is the file the html gallery of a multi-layout batch is
// written to.
const galleryName = "gallery.html"

// renderOpts holds the render command's flags. Flags left unset fall back
// to the configuration file.
type renderOpts struct {
	formats    string
	output     string
	width      int
	padding    float64
	background string
	title      string
	pivots     bool
	embedFont  bool
	noCache    bool
	refresh    bool
	pick       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var o renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|dir|glob ...]",
		Short: "Render KLE layouts to svg, png, json or an html gallery",
		Long: `Render one or more KLE layout files.

Arguments may be files, directories (every *.json below them) or glob
patterns such as 'layouts/**/*.json'. A layout that fails to parse is
reported and the remaining layouts are still rendered.

The html format builds a single gallery page with one section per layout.
Pass "-" to read one layout from stdin and write one format to stdout.`,
		Example: `  kleviz render planck.json
  kleviz render -f svg,png -o out/ 'layouts/**/*.json'
  kleviz render -f html --title "My boards" layouts/
  cat ergo.json | kleviz render -f png - > ergo.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderOptions(cmd, o)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if len(args) == 1 && args[0] == "-" {
				return c.renderStdin(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, o)
			}
			return c.renderFiles(cmd, args, opts, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.formats, "format", "f", "", "output formats: svg, png, json, html (comma-separated)")
	f.StringVarP(&o.output, "output", "o", "", "output directory (default: next to each input)")
	f.IntVar(&o.width, "width", 0, "raster width in pixels")
	f.Float64Var(&o.padding, "padding", 0, "padding around the layout in key units")
	f.StringVar(&o.background, "background", "", "background color, or \"none\"")
	f.StringVar(&o.title, "title", "", "html gallery title")
	f.BoolVar(&o.pivots, "pivots", false, "mark rotation pivots")
	f.BoolVar(&o.embedFont, "embed-font", false, "embed the legend font in svg output")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&o.refresh, "refresh", false, "re-render even when cached")
	f.BoolVar(&o.pick, "pick", false, "choose layouts interactively")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// renderOptions merges the configuration with the flags the user set.
func (c *CLI) renderOptions(cmd *cobra.Command, o renderOpts) pipeline.Options {
	opts := pipeline.FromConfig(c.cfg)
	f := cmd.Flags()
	if f.Changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if f.Changed("width") {
		opts.PixelWidth = o.width
	}
	if f.Changed("padding") {
		opts.Padding = pipeline.Padding(o.padding)
	}
	if f.Changed("background") {
		opts.Background = o.background
	}
	if f.Changed("pivots") {
		opts.Pivots = o.pivots
	}
	if f.Changed("embed-font") {
		opts.EmbedFont = o.embedFont
	}
	opts.Title = o.title
	opts.Refresh = o.refresh
	opts.Logger = c.Logger
	return opts
}

func (c *CLI) outputDir(o renderOpts) string {
	if o.output != "" {
		return o.output
	}
	return c.cfg.Output.OutDir
}

// renderStdin renders a single layout read from r and writes the artifact
// to w. Status output is suppressed so w carries only the artifact.
func (c *CLI) renderStdin(ctx context.Context, r io.Reader, w io.Writer, opts pipeline.Options, o renderOpts) error {
	if len(opts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdin rendering writes exactly one format, got %d", len(opts.Formats))
	}
	data, err := io.ReadAll(io.LimitReader(r, errors.MaxLayoutBytes+1))
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := errors.ValidateLayoutData(data); err != nil {
		return err
	}

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, pipeline.Input{Name: "stdin", Data: data}, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(res.Artifacts[opts.Formats[0]])
	return err
}

// renderFiles renders every layout matched by args and writes the
// artifacts to disk.
func (c *CLI) renderFiles(cmd *cobra.Command, args []string, opts pipeline.Options, o renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	paths, err := kio.Discover(args)
	if err != nil {
		return err
	}
	if o.pick {
		paths, err = pickLayouts(ctx, paths, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			printInfo("No layouts selected")
			return nil
		}
	}

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)

	// Read failures never reach the pipeline; they are reported alongside
	// the batch items.
	var inputs []pipeline.Input
	readFailed := 0
	for _, p := range paths {
		data, err := kio.ReadLayoutFile(p)
		if err != nil {
			printError("%s: %s", p, errors.UserMessage(err))
			readFailed++
			continue
		}
		inputs = append(inputs, pipeline.Input{Name: p, Data: data})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%d of %d layouts failed", readFailed, len(paths))
	}

	var spinner *Spinner
	if logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d layouts...", len(inputs)))
		spinner.Start()
	}
	batch, err := runner.RunBatch(ctx, inputs, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil && batch == nil {
		return err
	}
	batchErr := err

	dir := c.outputDir(o)
	for _, item := range batch.Items {
		if item.Err != nil {
			printError("%s: %s", item.Name, errors.UserMessage(item.Err))
			continue
		}
		if err := writeItem(dir, item, opts); err != nil {
			return err
		}
	}

	if len(batch.Gallery) > 0 {
		path, err := writeGallery(dir, inputs, batch.Gallery)
		if err != nil {
			return err
		}
		printSuccess("Gallery")
		printFile(path)
	}

	if batchErr != nil {
		return batchErr
	}

	total := len(paths)
	failed := readFailed + batch.Failed()
	prog.done(fmt.Sprintf("Rendered %d of %d layouts", total-failed, total))
	if failed > 0 {
		return fmt.Errorf("%d of %d layouts failed", failed, total)
	}
	return nil
}

// writeItem writes the artifacts of one successful item. The html format
// is written once for the whole batch, not per item.
func writeItem(dir string, item pipeline.Item, opts pipeline.Options) error {
	res := item.Result
	printSuccess("%s", item.Name)
	printStats(res.Stats.KeyCount, res.CacheHit)
	for _, format := range opts.Formats {
		if format == pipeline.FormatHTML {
			continue
		}
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		path, err := kio.WriteArtifact(dir, item.Name, format, data)
		if err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeGallery names the gallery after the input for a single layout and
// gallery.html otherwise.
func writeGallery(dir string, inputs []pipeline.Input, data []byte) (string, error) {
	if len(inputs) == 1 {
		return kio.WriteArtifact(dir, inputs[0].Name, pipeline.FormatHTML, data)
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, galleryName)
	if err := kio.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
