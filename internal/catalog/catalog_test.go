package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"media-catalog/internal/filters"
	"media-catalog/internal/query"
	"media-catalog/internal/simhash"
	"media-catalog/internal/store"
	"media-catalog/internal/tags"
)

// stubHasher returns a fixed hash so tests can observe rehashing
// without touching pixels.
type stubHasher struct {
	nibbles string
	calls   int
}

func (h *stubHasher) HashAsset(ctx context.Context, a *store.Asset) ([]simhash.Hash, error) {
	h.calls++
	return []simhash.Hash{{Flavor: simhash.DefaultFlavor, Nibbles: h.nibbles}}, nil
}

func testCatalog(t *testing.T) (*Catalog, *store.Store, *stubHasher) {
	t.Helper()
	s, err := store.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	h := &stubHasher{nibbles: "abcdabcdabcdabcd"}
	return New(s, h), s, h
}

func seed(t *testing.T, s *store.Store, slug string, stamp time.Time, tagNames ...string) *store.Asset {
	t.Helper()
	a := &store.Asset{
		Slug:   slug,
		Medium: "photo",
		Path:   "/m/" + slug + ".jpg",
		Stamp:  stamp,
		Tags:   tagNames,
	}
	if err := s.Insert(context.Background(), a); err != nil {
		t.Fatalf("Insert(%s) error = %v", slug, err)
	}
	return a
}

func TestQueryExhausted(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	base := time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"aaaa0000", "bbbb0000", "cccc0000"} {
		seed(t, s, slug, base.Add(time.Duration(i)*time.Hour), "hiking")
	}

	page, exhausted, err := c.Query(ctx, query.Parse("hiking/"), 0, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(page) != 2 || exhausted {
		t.Errorf("Query(page 1) = %d assets, exhausted=%v, want 2, false", len(page), exhausted)
	}

	page, exhausted, err = c.Query(ctx, query.Parse("hiking/"), 2, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(page) != 1 || !exhausted {
		t.Errorf("Query(page 2) = %d assets, exhausted=%v, want 1, true", len(page), exhausted)
	}

	none, exhausted, err := c.Query(ctx, query.Parse("no-such-tag/"), 0, 10)
	if err != nil || len(none) != 0 || !exhausted {
		t.Errorf("Query(no match) = %d, %v, %v, want empty exhausted page", len(none), exhausted, err)
	}
}

func TestMutateTags(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC(), "hiking")

	a, err := c.MutateTags(ctx, "aaaa0000", []string{"Beach Day!"}, []string{"hiking"})
	if err != nil {
		t.Fatalf("MutateTags() error = %v", err)
	}
	if a.HasTag("hiking") || !a.HasTag("beach-day") {
		t.Errorf("MutateTags() tags = %v, want hiking gone and beach-day added canonical", a.Tags)
	}

	// Adds apply before removes, so a name in both lists ends up absent.
	a, err = c.MutateTags(ctx, "aaaa0000", []string{"x"}, []string{"x"})
	if err != nil {
		t.Fatalf("MutateTags() error = %v", err)
	}
	if a.HasTag("x") {
		t.Errorf("MutateTags(add+remove same tag) kept the tag: %v", a.Tags)
	}

	// Idempotent: repeating the same mutation changes nothing.
	before := len(a.Tags)
	a, err = c.MutateTags(ctx, "aaaa0000", []string{"beach-day"}, nil)
	if err != nil {
		t.Fatalf("MutateTags() error = %v", err)
	}
	if len(a.Tags) != before {
		t.Errorf("MutateTags(re-add present) = %v, want unchanged", a.Tags)
	}
}

func TestApplyFilterPersistsAndRehashes(t *testing.T) {
	c, s, h := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())

	a, err := c.ApplyFilter(ctx, "aaaa0000", filters.KindRotate, filters.Params{Degrees: 90})
	if err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}
	if len(a.Filters) != 1 || a.Filters[0].Kind != filters.KindRotate {
		t.Errorf("ApplyFilter() pipeline = %v, want one rotate", a.Filters)
	}
	if h.calls != 1 {
		t.Errorf("ApplyFilter() hasher calls = %d, want 1", h.calls)
	}
	if len(a.Hashes) != 1 || a.Hashes[0].Nibbles != "abcdabcdabcdabcd" {
		t.Errorf("ApplyFilter() hashes = %v, want stub hash", a.Hashes)
	}

	got, err := c.Get(ctx, "aaaa0000")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Filters) != 1 {
		t.Errorf("filter change did not persist: %v", got.Filters)
	}
}

func TestApplyFilterInvalidParams(t *testing.T) {
	c, s, _ := testCatalog(t)

	seed(t, s, "aaaa0000", time.Now().UTC())

	_, err := c.ApplyFilter(context.Background(), "aaaa0000", filters.KindCrop,
		filters.Params{X1: 0.5, Y1: 0.5, X2: 0.2, Y2: 0.2})
	if !errors.Is(err, ErrInvalidFilterParams) {
		t.Errorf("ApplyFilter(empty crop box) error = %v, want ErrInvalidFilterParams", err)
	}
}

func TestRemoveFilterAt(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())
	if _, err := c.ApplyFilter(ctx, "aaaa0000", filters.KindHFlip, filters.Params{}); err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}
	if _, err := c.ApplyFilter(ctx, "aaaa0000", filters.KindRotate, filters.Params{Degrees: 45}); err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}

	a, err := c.RemoveFilterAt(ctx, "aaaa0000", 0)
	if err != nil {
		t.Fatalf("RemoveFilterAt() error = %v", err)
	}
	if len(a.Filters) != 1 || a.Filters[0].Kind != filters.KindRotate {
		t.Errorf("RemoveFilterAt(0) left %v, want only the rotate", a.Filters)
	}

	if _, err := c.RemoveFilterAt(ctx, "aaaa0000", 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveFilterAt(past end) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestUndoFilter(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())
	if _, err := c.ApplyFilter(ctx, "aaaa0000", filters.KindVFlip, filters.Params{}); err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}

	a, err := c.UndoFilter(ctx, "aaaa0000")
	if err != nil {
		t.Fatalf("UndoFilter() error = %v", err)
	}
	if len(a.Filters) != 0 {
		t.Errorf("UndoFilter() left %v, want empty pipeline", a.Filters)
	}

	// Undoing an empty pipeline is a no-op.
	a, err = c.UndoFilter(ctx, "aaaa0000")
	if err != nil {
		t.Fatalf("UndoFilter(empty) error = %v", err)
	}
	if len(a.Filters) != 0 {
		t.Errorf("UndoFilter(empty) = %v, want still empty", a.Filters)
	}
}

func TestPreviewLifecycle(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())

	if err := c.StartPreview(ctx, "aaaa0000", filters.KindBrightness); err != nil {
		t.Fatalf("StartPreview() error = %v", err)
	}
	if err := c.SetPreview(ctx, "aaaa0000", filters.Params{Percent: 120}); err != nil {
		t.Fatalf("SetPreview() error = %v", err)
	}
	// Repeated Set replaces the candidate, it does not stack.
	if err := c.SetPreview(ctx, "aaaa0000", filters.Params{Percent: 140}); err != nil {
		t.Fatalf("SetPreview() error = %v", err)
	}

	a, err := c.CommitPreview(ctx, "aaaa0000")
	if err != nil {
		t.Fatalf("CommitPreview() error = %v", err)
	}
	if len(a.Filters) != 1 {
		t.Fatalf("CommitPreview() appended %d filters, want exactly 1", len(a.Filters))
	}
	if a.Filters[0].Params.Percent != 140 {
		t.Errorf("CommitPreview() committed percent %v, want the last Set value 140", a.Filters[0].Params.Percent)
	}

	// Session is closed after commit.
	if err := c.SetPreview(ctx, "aaaa0000", filters.Params{Percent: 90}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPreview(after commit) error = %v, want ErrNotFound", err)
	}
}

func TestPreviewCancelLeavesPipeline(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())

	if err := c.StartPreview(ctx, "aaaa0000", filters.KindContrast); err != nil {
		t.Fatalf("StartPreview() error = %v", err)
	}
	if err := c.SetPreview(ctx, "aaaa0000", filters.Params{Percent: 80}); err != nil {
		t.Fatalf("SetPreview() error = %v", err)
	}
	if err := c.CancelPreview(ctx, "aaaa0000"); err != nil {
		t.Fatalf("CancelPreview() error = %v", err)
	}

	a, err := c.Get(ctx, "aaaa0000")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(a.Filters) != 0 {
		t.Errorf("CancelPreview() leaked a filter into the pipeline: %v", a.Filters)
	}
}

func TestUpdateStampAbsolute(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	old := time.Date(2019, time.March, 9, 10, 0, 0, 0, time.UTC)
	a := seed(t, s, "aaaa0000", old, append(tags.FromStamp(old), "hiking")...)

	got, err := c.UpdateStamp(ctx, "aaaa0000", "2020-07-04 16:30:00")
	if err != nil {
		t.Fatalf("UpdateStamp() error = %v", err)
	}
	want := time.Date(2020, time.July, 4, 16, 30, 0, 0, time.UTC)
	if !got.Stamp.Equal(want) {
		t.Errorf("UpdateStamp() stamp = %v, want %v", got.Stamp, want)
	}
	if got.HasTag("2019") || got.HasTag("march") || got.HasTag("9th") {
		t.Errorf("UpdateStamp() kept stale stamp tags: %v", got.Tags)
	}
	if !got.HasTag("2020") || !got.HasTag("july") || !got.HasTag("4th") || !got.HasTag("4pm") {
		t.Errorf("UpdateStamp() missing new stamp tags: %v", got.Tags)
	}
	if !got.HasTag("hiking") {
		t.Errorf("UpdateStamp() dropped a user tag: %v", got.Tags)
	}
	_ = a
}

func TestUpdateStampRelative(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	old := time.Date(2019, time.March, 9, 10, 0, 0, 0, time.UTC)
	seed(t, s, "aaaa0000", old, tags.FromStamp(old)...)

	got, err := c.UpdateStamp(ctx, "aaaa0000", "+1y-2m+3d-4h")
	if err != nil {
		t.Fatalf("UpdateStamp() error = %v", err)
	}
	want := old.AddDate(1, 0, 0).AddDate(0, -2, 0).AddDate(0, 0, 3).Add(-4 * time.Hour)
	if !got.Stamp.Equal(want) {
		t.Errorf("UpdateStamp(+1y-2m+3d-4h) = %v, want %v", got.Stamp, want)
	}
	if !got.HasTag("2020") || !got.HasTag("january") {
		t.Errorf("UpdateStamp() tags not rederived: %v", got.Tags)
	}
}

func TestUpdateStampBadSpec(t *testing.T) {
	c, s, _ := testCatalog(t)

	seed(t, s, "aaaa0000", time.Now().UTC())

	if _, err := c.UpdateStamp(context.Background(), "aaaa0000", "sometime later"); !errors.Is(err, ErrBadStamp) {
		t.Errorf("UpdateStamp(garbage) error = %v, want ErrBadStamp", err)
	}
}

func TestDeleteIsTerminal(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())

	if err := c.Delete(ctx, "aaaa0000"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "aaaa0000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := c.Delete(ctx, "aaaa0000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
	}
	if _, err := c.MutateTags(ctx, "aaaa0000", []string{"x"}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("MutateTags(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestBatchContinuesPastFailures(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())
	seed(t, s, "bbbb0000", time.Now().UTC())

	outcomes := c.BatchMutateTags(ctx, []string{"aaaa0000", "ffff9999", "bbbb0000"}, []string{"batch"}, nil)
	if len(outcomes) != 3 {
		t.Fatalf("BatchMutateTags() = %d outcomes, want 3", len(outcomes))
	}
	if outcomes[0].Failed() || outcomes[2].Failed() {
		t.Errorf("batch failed on valid slugs: %v, %v", outcomes[0].Err, outcomes[2].Err)
	}
	if !outcomes[1].Failed() || !errors.Is(outcomes[1].Err, ErrNotFound) {
		t.Errorf("outcomes[1].Err = %v, want ErrNotFound", outcomes[1].Err)
	}
	if !outcomes[2].Asset.HasTag("batch") {
		t.Errorf("batch skipped the asset after a failure: %v", outcomes[2].Asset.Tags)
	}
}

func TestBatchDelete(t *testing.T) {
	c, s, _ := testCatalog(t)
	ctx := context.Background()

	seed(t, s, "aaaa0000", time.Now().UTC())
	seed(t, s, "bbbb0000", time.Now().UTC())

	outcomes := c.BatchDelete(ctx, []string{"aaaa0000", "bbbb0000"})
	for _, o := range outcomes {
		if o.Failed() {
			t.Errorf("BatchDelete() failed for %s: %v", o.Slug, o.Err)
		}
	}
	n, err := c.Count(ctx)
	if err != nil || n != 0 {
		t.Errorf("Count() after batch delete = %d, %v, want 0", n, err)
	}
}
