package filterkit

import (
	"reflect"
	"testing"
	"time"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
	"tubelens/internal/platform/timeutil"
)

func row(id string, at time.Time, views schema.Count) schema.EnrichedVideoRow {
	return schema.EnrichedVideoRow{VideoID: id, PublishedAt: at, Views: views}
}

func TestApply_NoFiltersIsACopy(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		row("v1", at, schema.KnownCount(10)),
		row("v2", at.AddDate(0, 0, 1), schema.UnknownCount()),
	}

	got, err := Apply(rows, Range{}, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("no-op filter changed rows:\n%+v\nvs\n%+v", got, rows)
	}
	// a fresh slice, not the same backing array
	got[0].VideoID = "mutated"
	if rows[0].VideoID != "v1" {
		t.Fatal("Apply aliased its input slice")
	}
}

func TestApply_DateRangeInclusive(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC) }
	rows := []schema.EnrichedVideoRow{
		row("v1", d(1), schema.KnownCount(1)),
		row("v2", d(5), schema.KnownCount(1)),
		row("v3", d(10), schema.KnownCount(1)),
		row("v4", d(15), schema.KnownCount(1)),
	}

	got, err := Apply(rows, Range{Start: timeutil.Ptr(d(5)), End: timeutil.Ptr(d(10))}, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(got) != 2 || got[0].VideoID != "v2" || got[1].VideoID != "v3" {
		t.Fatalf("got = %+v, want [v2 v3]", got)
	}

	// open-ended on one side
	got, err = Apply(rows, Range{Start: timeutil.Ptr(d(10))}, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(got) != 2 || got[0].VideoID != "v3" {
		t.Fatalf("open-ended got = %+v, want [v3 v4]", got)
	}
}

func TestApply_Threshold(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		row("low", at, schema.KnownCount(10)),
		row("edge", at, schema.KnownCount(100)),
		row("high", at, schema.KnownCount(1000)),
		row("blind", at, schema.UnknownCount()),
	}

	tests := []struct {
		op   string
		want []string
	}{
		{op: OpGTE, want: []string{"edge", "high"}},
		{op: OpGT, want: []string{"high"}},
		{op: OpLTE, want: []string{"low", "edge"}},
		{op: OpLT, want: []string{"low"}},
		{op: OpEQ, want: []string{"edge"}},
	}
	for _, tc := range tests {
		got, err := Apply(rows, Range{}, &Threshold{Metric: schema.MetricViews, Op: tc.op, Value: 100})
		if err != nil {
			t.Fatalf("apply %s: %v", tc.op, err)
		}
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.VideoID)
		}
		if !reflect.DeepEqual(ids, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.op, ids, tc.want)
		}
	}
}

func TestApply_UnknownMetricRowNeverSatisfies(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{row("blind", at, schema.UnknownCount())}

	// even "views <= huge" must not admit an unknown-views row
	got, err := Apply(rows, Range{}, &Threshold{Metric: schema.MetricViews, Op: OpLTE, Value: 1e18})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unknown metric row passed a threshold: %+v", got)
	}
}

func TestApply_BadInputsFailFast(t *testing.T) {
	if _, err := Apply(nil, Range{}, &Threshold{Metric: "virality", Op: OpGTE}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown metric: err = %v", err)
	}
	rows := []schema.EnrichedVideoRow{row("v1", time.Now(), schema.KnownCount(1))}
	if _, err := Apply(rows, Range{}, &Threshold{Metric: schema.MetricViews, Op: "between"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown op: err = %v", err)
	}
}
