// Package pipeline runs the load → normalize → render pipeline shared by
// the CLI and the HTTP service.
//
// # Stages
//
//  1. Load: parse KLE JSON or raw data into a keyboard
//  2. Normalize: shift the keyboard into the first quadrant and size the viewport
//  3. Render: serialize the keyboard once per requested format
//
// # Usage
//
// Render a parsed keyboard directly:
//
//	artifacts, err := pipeline.Render(kb, pipeline.Options{Formats: []string{"svg"}})
//
// Or go through a Runner, which adds caching and observability:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Input{Name: "planck.json", Data: data}, opts)
//	svg := result.Artifacts["svg"]
//
// Batches are processed sequentially; a malformed layout fails its own item
// and the batch moves on:
//
//	batch, err := runner.RunBatch(ctx, inputs, opts)
//	for _, item := range batch.Items { ... }
package pipeline

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kleviz/pkg/cache"
	"github.com/matzehuels/kleviz/pkg/config"
	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/render/keycap"
	"github.com/matzehuels/kleviz/pkg/render/sink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatHTML = "html"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatHTML: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
	FormatHTML: "text/html; charset=utf-8",
}

// Options configures rendering. The zero value renders SVG at the default
// width, padding and style.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	PixelWidth int      `json:"pixel_width,omitempty"`

	// Padding in U around the layout. nil selects layout.DefaultPadding so
	// that an explicit zero stays expressible.
	Padding *float64 `json:"padding,omitempty"`

	// Style is the keycap geometry; the zero value selects the default.
	Style keycap.Style `json:"style"`

	// Background overrides the layout's backcolor. "none" disables it.
	Background string `json:"background,omitempty"`
	Pivots     bool   `json:"pivots,omitempty"`
	EmbedFont  bool   `json:"embed_font,omitempty"`

	// Title heads HTML pages. Single layouts fall back to their own name.
	Title string `json:"title,omitempty"`

	// Refresh bypasses cache reads. Fresh artifacts are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Padding returns a pointer to v for [Options.Padding].
func Padding(v float64) *float64 { return &v }

// FromConfig derives options from a loaded configuration.
func FromConfig(cfg config.Config) Options {
	return Options{
		Formats:    slices.Clone(cfg.Output.Formats),
		PixelWidth: cfg.Output.PixelWidth,
		Padding:    Padding(cfg.Layout.Padding),
		Style:      cfg.Keycap,
		Background: cfg.Colors.Background,
		Pivots:     cfg.Output.Pivots,
		EmbedFont:  cfg.Output.EmbedFont,
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, html)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PixelWidth == 0 {
		o.PixelWidth = sink.DefaultPixelWidth
	}
	if o.Padding == nil {
		o.Padding = Padding(layout.DefaultPadding)
	}
	if o.Style == (keycap.Style{}) {
		o.Style = keycap.DefaultStyle()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every field. Call after SetDefaults.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PixelWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pixel width must be positive, got %d", o.PixelWidth)
	}
	if p := o.PaddingValue(); p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be a finite, non-negative number")
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	switch o.Background {
	case "", "none", "transparent":
	default:
		if _, err := keycap.ParseColor(o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "background")
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// PaddingValue returns the effective padding.
func (o *Options) PaddingValue() float64 {
	if o.Padding == nil {
		return layout.DefaultPadding
	}
	return *o.Padding
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// SinkOptions translates o into renderer options.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{
		sink.WithStyle(o.Style),
		sink.WithPixelWidth(o.PixelWidth),
	}
	if o.Background != "" {
		opts = append(opts, sink.WithBackground(o.Background))
	}
	if o.Pivots {
		opts = append(opts, sink.WithPivots())
	}
	if o.EmbedFont {
		opts = append(opts, sink.WithEmbeddedFont())
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	title := ""
	if format == FormatHTML {
		title = o.Title
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		PixelWidth: o.PixelWidth,
		Padding:    o.PaddingValue(),
		Background: o.Background,
		Pivots:     o.Pivots,
		EmbedFont:  o.EmbedFont,
		Title:      title,
		Style:      cache.Fingerprint(o.Style),
	}
}
