package filters

import (
	"fmt"
	"math"
)

// Pipeline is the ordered list of committed filters for one asset.
// Later filters compose on top of earlier ones; order matters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline builds a pipeline from previously persisted filters.
// The input slice is copied.
func NewPipeline(committed []Filter) *Pipeline {
	p := &Pipeline{}
	if len(committed) > 0 {
		p.filters = append(p.filters, committed...)
	}
	return p
}

// Len returns the number of committed filters.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Filters returns a copy of the committed filter list.
func (p *Pipeline) Filters() []Filter {
	out := make([]Filter, len(p.filters))
	copy(out, p.filters)
	return out
}

// Append validates the parameters and adds a filter to the end of the
// pipeline, returning the committed record.
func (p *Pipeline) Append(kind Kind, params Params) (Filter, error) {
	f, err := New(kind, params)
	if err != nil {
		return Filter{}, err
	}
	p.filters = append(p.filters, f)
	return f, nil
}

// RemoveAt removes the filter at the given index. Removing a
// non-terminal filter is permitted; downstream filters keep their
// relative order and renders must be recomputed from scratch.
func (p *Pipeline) RemoveAt(index int) error {
	if index < 0 || index >= len(p.filters) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.filters))
	}
	p.filters = append(p.filters[:index], p.filters[index+1:]...)
	return nil
}

// UndoLast removes and returns the most recently committed filter, or
// nil if the pipeline is empty.
func (p *Pipeline) UndoLast() *Filter {
	if len(p.filters) == 0 {
		return nil
	}
	last := p.filters[len(p.filters)-1]
	p.filters = p.filters[:len(p.filters)-1]
	return &last
}

// Op is one normalized operation for a rendering collaborator.
type Op struct {
	Kind   Kind   `json:"kind"`
	Params Params `json:"params"`
}

// EffectiveTransform computes the ordered operation sequence a renderer
// should apply. Rotation and hue angles are wrapped into (-180, 180],
// and adjacent identical flips cancel; everything else passes through
// in commit order.
func (p *Pipeline) EffectiveTransform() []Op {
	var ops []Op
	for _, f := range p.filters {
		op := Op{Kind: f.Kind, Params: f.Params}
		switch f.Kind {
		case KindRotate, KindHue:
			op.Params.Degrees = wrapDegrees(f.Params.Degrees)
			if op.Params.Degrees == 0 {
				continue
			}
		case KindHFlip, KindVFlip:
			if n := len(ops); n > 0 && ops[n-1].Kind == f.Kind {
				ops = ops[:n-1]
				continue
			}
		}
		ops = append(ops, op)
	}
	return ops
}

// wrapDegrees maps an angle into (-180, 180].
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
