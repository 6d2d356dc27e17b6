package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/render/sink"
)

// Item is the outcome of one batch input. Exactly one of Result and Err is
// set.
type Item struct {
	Name   string
	Result *Result
	Err    error
}

// BatchResult holds every item in input order, plus the combined gallery
// when the html format was requested.
type BatchResult struct {
	Items   []Item
	Gallery []byte
}

// Succeeded returns the number of items that rendered.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, it := range b.Items {
		if it.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of items that did not render.
func (b *BatchResult) Failed() int {
	return len(b.Items) - b.Succeeded()
}

// Err joins the item errors, each prefixed with its input name. It returns
// nil when every item succeeded.
func (b *BatchResult) Err() error {
	var errs []error
	for _, it := range b.Items {
		if it.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", it.Name, it.Err))
		}
	}
	return stderrors.Join(errs...)
}

// RunBatch renders every input in order. A failing input is recorded as
// that item's error and the batch continues; only an empty batch, invalid
// options or a cancelled context end it early. Cancellation returns the
// items completed so far together with the context error.
//
// The html format is a property of the batch, not of an item: when it is
// requested, items are rendered to SVG and one gallery page with a section
// per input is built.
func (r *Runner) RunBatch(ctx context.Context, inputs []Input, opts Options) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBatch, "no layouts to render")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	itemOpts := opts
	gallery := opts.HasFormat(FormatHTML)
	if gallery {
		itemOpts.Formats = slices.DeleteFunc(slices.Clone(opts.Formats), func(f string) bool { return f == FormatHTML })
		if !slices.Contains(itemOpts.Formats, FormatSVG) {
			itemOpts.Formats = append(itemOpts.Formats, FormatSVG)
		}
	}

	batch := &BatchResult{Items: make([]Item, 0, len(inputs))}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		res, err := r.Execute(ctx, in, itemOpts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return batch, ctxErr
			}
			opts.Logger.Warn("layout failed", "layout", in.Name, "err", errors.UserMessage(err))
			batch.Items = append(batch.Items, Item{Name: in.Name, Err: err})
			continue
		}
		batch.Items = append(batch.Items, Item{Name: in.Name, Result: res})
	}

	if gallery {
		page, err := batch.gallery(opts.Title)
		if err != nil {
			return batch, fmt.Errorf("render gallery: %w", err)
		}
		batch.Gallery = page
	}
	return batch, nil
}

func (b *BatchResult) gallery(title string) ([]byte, error) {
	if title == "" {
		title = "Keyboard layouts"
	}
	sections := make([]sink.Section, 0, len(b.Items))
	for _, it := range b.Items {
		s := sink.Section{Name: it.Name, Err: it.Err}
		if it.Result != nil {
			if kb := it.Result.Keyboard; kb != nil && kb.Meta.Name != "" {
				s.Name = it.Name + " · " + kb.Meta.Name
			}
			s.SVG = it.Result.Artifacts[FormatSVG]
		}
		sections = append(sections, s)
	}
	return sink.RenderHTML(title, sections)
}
