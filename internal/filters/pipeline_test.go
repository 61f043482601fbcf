package filters

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		params  Params
		wantErr bool
	}{
		{"valid crop", KindCrop, Params{X1: 0.1, Y1: 0.1, X2: 0.9, Y2: 0.9}, false},
		{"full-frame crop", KindCrop, Params{X1: 0, Y1: 0, X2: 1, Y2: 1}, false},
		{"crop outside box", KindCrop, Params{X1: -0.1, Y1: 0, X2: 1, Y2: 1}, true},
		{"crop beyond 1", KindCrop, Params{X1: 0, Y1: 0, X2: 1.5, Y2: 1}, true},
		{"empty crop", KindCrop, Params{X1: 0.5, Y1: 0.2, X2: 0.5, Y2: 0.8}, true},
		{"inverted crop", KindCrop, Params{X1: 0.9, Y1: 0.1, X2: 0.1, Y2: 0.9}, true},
		{"rotate", KindRotate, Params{Degrees: 90}, false},
		{"rotate negative", KindRotate, Params{Degrees: -7.5}, false},
		{"rotate NaN", KindRotate, Params{Degrees: math.NaN()}, true},
		{"rotate Inf", KindRotate, Params{Degrees: math.Inf(1)}, true},
		{"hue", KindHue, Params{Degrees: 30}, false},
		{"brightness", KindBrightness, Params{Percent: 110}, false},
		{"brightness negative", KindBrightness, Params{Percent: -1}, true},
		{"contrast", KindContrast, Params{Percent: 95}, false},
		{"saturation", KindSaturation, Params{Percent: 0}, false},
		{"autocontrast", KindAutocontrast, Params{Percent: 2}, false},
		{"autocontrast clip too high", KindAutocontrast, Params{Percent: 50}, true},
		{"hflip", KindHFlip, Params{}, false},
		{"vflip", KindVFlip, Params{}, false},
		{"unknown kind", Kind("posterize"), Params{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %+v) error = %v, wantErr %v",
					tt.kind, tt.params, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate error %v is not ErrInvalidParams", err)
			}
		})
	}
}

func TestPipelineAppendAndUndo(t *testing.T) {
	p := NewPipeline(nil)

	f1, err := p.Append(KindRotate, Params{Degrees: 90})
	if err != nil {
		t.Fatalf("Append rotate: %v", err)
	}
	if _, err := p.Append(KindHFlip, Params{}); err != nil {
		t.Fatalf("Append hflip: %v", err)
	}
	if _, err := p.Append(KindBrightness, Params{Percent: 120}); err != nil {
		t.Fatalf("Append brightness: %v", err)
	}

	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}

	if undone := p.UndoLast(); undone == nil || undone.Kind != KindBrightness {
		t.Errorf("first UndoLast() = %+v, want brightness", undone)
	}
	if undone := p.UndoLast(); undone == nil || undone.Kind != KindHFlip {
		t.Errorf("second UndoLast() = %+v, want hflip", undone)
	}

	if got := p.Filters(); len(got) != 1 || got[0] != f1 {
		t.Errorf("Filters() after two undos = %+v, want [%+v]", got, f1)
	}
}

func TestPipelineUndoEmpty(t *testing.T) {
	p := NewPipeline(nil)
	if undone := p.UndoLast(); undone != nil {
		t.Errorf("UndoLast() on empty pipeline = %+v, want nil", undone)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d after no-op undo", p.Len())
	}
}

func TestPipelineRemoveAt(t *testing.T) {
	p := NewPipeline(nil)
	p.Append(KindRotate, Params{Degrees: 90})   //nolint:errcheck
	p.Append(KindHFlip, Params{})               //nolint:errcheck
	p.Append(KindContrast, Params{Percent: 80}) //nolint:errcheck

	// Removing a non-terminal filter is permitted.
	if err := p.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt(1): %v", err)
	}
	got := p.Filters()
	if len(got) != 2 || got[0].Kind != KindRotate || got[1].Kind != KindContrast {
		t.Errorf("Filters() after RemoveAt(1) = %+v", got)
	}

	for _, bad := range []int{-1, 2, 99} {
		err := p.RemoveAt(bad)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) = %v, want ErrIndexOutOfRange", bad, err)
		}
	}
}

func TestPipelineAppendInvalid(t *testing.T) {
	p := NewPipeline(nil)
	if _, err := p.Append(KindCrop, Params{X1: 2, Y1: 0, X2: 3, Y2: 1}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Append(bad crop) = %v, want ErrInvalidParams", err)
	}
	if p.Len() != 0 {
		t.Errorf("failed append mutated pipeline: Len() = %d", p.Len())
	}
}

func TestNewPipelineCopies(t *testing.T) {
	committed := []Filter{{Kind: KindHFlip}}
	p := NewPipeline(committed)
	committed[0].Kind = KindVFlip
	if got := p.Filters(); got[0].Kind != KindHFlip {
		t.Error("NewPipeline aliased the caller's slice")
	}
}

func TestEffectiveTransform(t *testing.T) {
	p := NewPipeline(nil)
	p.Append(KindRotate, Params{Degrees: 450})                    //nolint:errcheck
	p.Append(KindCrop, Params{X1: 0.1, Y1: 0.1, X2: 0.9, Y2: 1}) //nolint:errcheck
	p.Append(KindHFlip, Params{})                                 //nolint:errcheck
	p.Append(KindHFlip, Params{})                                 //nolint:errcheck
	p.Append(KindVFlip, Params{})                                 //nolint:errcheck
	p.Append(KindRotate, Params{Degrees: 720})                    //nolint:errcheck

	ops := p.EffectiveTransform()
	want := []Op{
		{Kind: KindRotate, Params: Params{Degrees: 90}},
		{Kind: KindCrop, Params: Params{X1: 0.1, Y1: 0.1, X2: 0.9, Y2: 1}},
		{Kind: KindVFlip},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("EffectiveTransform() = %+v, want %+v", ops, want)
	}
}

func TestEffectiveTransformOrderPreserved(t *testing.T) {
	p := NewPipeline(nil)
	p.Append(KindBrightness, Params{Percent: 120}) //nolint:errcheck
	p.Append(KindContrast, Params{Percent: 90})    //nolint:errcheck

	ops := p.EffectiveTransform()
	if len(ops) != 2 || ops[0].Kind != KindBrightness || ops[1].Kind != KindContrast {
		t.Errorf("EffectiveTransform() = %+v, order not preserved", ops)
	}
}

func TestPreviewCommit(t *testing.T) {
	p := NewPipeline(nil)
	p.Append(KindHFlip, Params{}) //nolint:errcheck

	v, err := StartPreview(KindBrightness)
	if err != nil {
		t.Fatalf("StartPreview: %v", err)
	}
	for _, pct := range []float64{90, 105, 117} {
		if err := v.Set(Params{Percent: pct}); err != nil {
			t.Fatalf("Set(%v): %v", pct, err)
		}
	}

	f, err := v.Commit(p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if f.Kind != KindBrightness || f.Params.Percent != 117 {
		t.Errorf("committed filter = %+v, want brightness 117", f)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d after commit, want 2", p.Len())
	}
	if v.Active() {
		t.Error("preview still active after commit")
	}
}

func TestPreviewCancelLeavesPipelineUnchanged(t *testing.T) {
	p := NewPipeline(nil)
	p.Append(KindRotate, Params{Degrees: 90}) //nolint:errcheck
	before := p.Filters()

	v, err := StartPreview(KindBrightness)
	if err != nil {
		t.Fatalf("StartPreview: %v", err)
	}
	v.Set(Params{Percent: 80})  //nolint:errcheck
	v.Set(Params{Percent: 130}) //nolint:errcheck
	v.Cancel()

	if got := p.Filters(); !reflect.DeepEqual(got, before) {
		t.Errorf("pipeline changed by cancelled preview: %+v != %+v", got, before)
	}
	if v.Active() {
		t.Error("preview still active after cancel")
	}
	if err := v.Set(Params{Percent: 50}); err == nil {
		t.Error("Set succeeded on a cancelled preview")
	}
}

func TestPreviewNonRangingKind(t *testing.T) {
	if _, err := StartPreview(KindCrop); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("StartPreview(crop) = %v, want ErrInvalidParams", err)
	}
	if _, err := StartPreview(KindHFlip); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("StartPreview(hflip) = %v, want ErrInvalidParams", err)
	}
}
