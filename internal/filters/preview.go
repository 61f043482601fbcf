package filters

import (
	"fmt"
)

// rangingKinds are the adjustments that support live preview: a single
// value the user drags back and forth before deciding.
var rangingKinds = map[Kind]bool{
	KindBrightness: true,
	KindContrast:   true,
	KindSaturation: true,
	KindHue:        true,
	KindRotate:     true,
}

// IsRanging reports whether a kind supports live preview.
func IsRanging(kind Kind) bool {
	return rangingKinds[kind]
}

// Preview holds the in-progress value of one ranging adjustment. It is
// purely session-local state: nothing is persisted and nothing is
// visible to other readers of the asset until Commit converts the
// preview into a single appended Filter. Cancel discards it with no
// mutation at all.
type Preview struct {
	kind   Kind
	params Params
	active bool
}

// StartPreview begins a preview for a ranging adjustment kind.
func StartPreview(kind Kind) (*Preview, error) {
	if !IsRanging(kind) {
		return nil, fmt.Errorf("%w: %q is not a ranging adjustment", ErrInvalidParams, kind)
	}
	return &Preview{kind: kind, active: true}, nil
}

// Kind returns the adjustment kind being previewed.
func (v *Preview) Kind() Kind {
	return v.kind
}

// Active reports whether the preview is still open.
func (v *Preview) Active() bool {
	return v.active
}

// Set replaces the preview value. The preview stays replaceable until
// commit; unlike committed filters it is not append-only.
func (v *Preview) Set(params Params) error {
	if !v.active {
		return fmt.Errorf("%w: preview is closed", ErrInvalidParams)
	}
	if err := Validate(v.kind, params); err != nil {
		return err
	}
	v.params = params
	return nil
}

// Params returns the current preview value.
func (v *Preview) Params() Params {
	return v.params
}

// Commit converts the preview value into a single filter appended to
// the pipeline, and closes the preview.
func (v *Preview) Commit(p *Pipeline) (Filter, error) {
	if !v.active {
		return Filter{}, fmt.Errorf("%w: preview is closed", ErrInvalidParams)
	}
	f, err := p.Append(v.kind, v.params)
	if err != nil {
		return Filter{}, err
	}
	v.active = false
	return f, nil
}

// Cancel discards the preview. The committed pipeline is untouched.
func (v *Preview) Cancel() {
	v.active = false
}
