package kle

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/kleviz/pkg/errors"
)

// Read parses a layout from r. See [Parse].
func Read(r io.Reader) (*Keyboard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

// Parse decodes a KLE layout in strict JSON or raw-data form.
// Errors carry [errors.ErrCodeInvalidLayout].
func Parse(data []byte) (*Keyboard, error) {
	if err := errors.ValidateLayoutData(data); err != nil {
		return nil, err
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	p := newParser()
	for r, row := range rows {
		if err := p.row(r, row); err != nil {
			return nil, err
		}
	}
	return p.kb, nil
}

type parser struct {
	kb       *Keyboard
	current  *Key
	align    int
	clusterX float64
	clusterY float64
}

func newParser() *parser {
	return &parser{
		kb:      &Keyboard{},
		current: NewKey(),
		align:   4,
	}
}

func (p *parser) row(r int, row any) error {
	switch v := row.(type) {
	case map[string]any:
		if r != 0 {
			return errors.New(errors.ErrCodeInvalidLayout, "row %d: keyboard metadata must be the first element", r)
		}
		return decodeMeta(v, &p.kb.Meta)
	case []any:
		for k, item := range v {
			var err error
			switch it := item.(type) {
			case string:
				p.key(it)
			case map[string]any:
				err = p.props(k, it)
			default:
				err = fmt.Errorf("unexpected %T", item)
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLayout, err, "row %d, item %d", r, k)
			}
		}
		p.current.Y++
		p.current.X = p.current.RotationX
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidLayout, "row %d: expected an array or metadata object, got %T", r, row)
	}
}

// key emits a key from the cursor and advances it.
func (p *parser) key(text string) {
	k := p.current.Clone()
	k.Labels = reorderStrings(strings.Split(text, "\n"), p.align)
	k.TextSize = reorderInts(p.current.TextSize[:], p.align)

	for i := range LabelCount {
		if k.Labels[i] == "" {
			k.TextSize[i] = 0
			k.TextColor[i] = ""
		}
		if k.TextSize[i] == k.Default.TextSize {
			k.TextSize[i] = 0
		}
		if k.TextColor[i] == k.Default.TextColor {
			k.TextColor[i] = ""
		}
	}
	p.kb.Keys = append(p.kb.Keys, k)

	c := p.current
	c.X += c.Width
	c.Width, c.Height = 1, 1
	c.X2, c.Y2, c.Width2, c.Height2 = 0, 0, 0, 0
	c.Nub, c.Stepped, c.Decal = false, false, false
}

// props applies a property object to the cursor. k is the item's index
// within its row.
func (p *parser) props(k int, obj map[string]any) error {
	c := p.current
	pr := props(obj)

	_, hasR := obj["r"]
	_, hasRX := obj["rx"]
	_, hasRY := obj["ry"]
	if k != 0 && (hasR || hasRX || hasRY) {
		return fmt.Errorf("'r', 'rx' and 'ry' may only be used on the first key in a row")
	}
	if v, ok := pr.num("r"); ok {
		c.RotationAngle = v
	}
	if v, ok := pr.num("rx"); ok {
		c.RotationX, p.clusterX = v, v
	}
	if v, ok := pr.num("ry"); ok {
		c.RotationY, p.clusterY = v, v
	}
	if hasRX || hasRY {
		c.X, c.Y = p.clusterX, p.clusterY
	}

	if v, ok := pr.num("a"); ok {
		a := int(v)
		if float64(a) != v || a < 0 || a >= len(labelMap) {
			return fmt.Errorf("alignment %v out of range [0, %d]", v, len(labelMap)-1)
		}
		p.align = a
	}
	if v, ok := pr.num("f"); ok && v != 0 {
		c.Default.TextSize = int(v)
		c.TextSize = [LabelCount]int{}
	}
	if v, ok := pr.num("f2"); ok && v != 0 {
		for i := 1; i < LabelCount; i++ {
			c.TextSize[i] = int(v)
		}
	}
	if fa, ok := obj["fa"].([]any); ok {
		c.TextSize = [LabelCount]int{}
		for i, s := range fa {
			if i >= LabelCount {
				break
			}
			if f, ok := s.(float64); ok {
				c.TextSize[i] = int(f)
			}
		}
	}
	if v := pr.str("p"); v != "" {
		c.Profile = v
	}
	if v := pr.str("c"); v != "" {
		c.Color = v
	}
	if v := pr.str("t"); v != "" {
		split := strings.Split(v, "\n")
		if split[0] != "" {
			c.Default.TextColor = split[0]
		}
		c.TextColor = reorderStrings(split, p.align)
	}

	if v, ok := pr.num("x"); ok {
		c.X += v
	}
	if v, ok := pr.num("y"); ok {
		c.Y += v
	}
	if v, ok := pr.num("w"); ok && v != 0 {
		if v < 0 {
			return fmt.Errorf("width must be positive, got %v", v)
		}
		c.Width = v
	}
	if v, ok := pr.num("h"); ok && v != 0 {
		if v < 0 {
			return fmt.Errorf("height must be positive, got %v", v)
		}
		c.Height = v
	}
	if v, ok := pr.num("x2"); ok {
		c.X2 = v
	}
	if v, ok := pr.num("y2"); ok {
		c.Y2 = v
	}
	if v, ok := pr.num("w2"); ok {
		c.Width2 = v
	}
	if v, ok := pr.num("h2"); ok {
		c.Height2 = v
	}

	if pr.flag("n") {
		c.Nub = true
	}
	if pr.flag("l") {
		c.Stepped = true
	}
	if pr.flag("d") {
		c.Decal = true
	}
	if g, ok := obj["g"]; ok && g != nil {
		c.Ghost = truthy(g)
	}

	if v := pr.str("sm"); v != "" {
		c.SwitchMount = v
	}
	if v := pr.str("sb"); v != "" {
		c.SwitchBrand = v
	}
	if v := pr.str("st"); v != "" {
		c.SwitchType = v
	}
	return nil
}

// props wraps a decoded property object with typed accessors.
type props map[string]any

func (p props) num(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

func (p props) str(name string) string {
	v, _ := p[name].(string)
	return v
}

func (p props) flag(name string) bool {
	v, ok := p[name]
	return ok && truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return v != nil
	}
}

func decodeMeta(obj map[string]any, meta *Meta) error {
	// Round-trip through JSON so the struct tags do the field mapping.
	raw, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "metadata")
	}
	if err := json.Unmarshal(raw, meta); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "metadata")
	}
	return nil
}
