// Package aggregate groups enriched video rows along named dimensions and
// folds a metric into per-bucket statistics. All functions are pure and
// chunk-friendly: accumulators merge associatively so callers can split input
// arbitrarily without changing results
package aggregate

import (
	"sort"
	"strconv"
	"time"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
	"tubelens/internal/platform/timeutil"
)

// chunkSize bounds how many rows a single fold pass touches before the
// partial accumulators are merged. Not observable in results
const chunkSize = 1024

// Options controls dimension extraction
type Options struct {
	// Location is the timezone for weekday/hour/date/month keys; nil means UTC
	Location *time.Location
}

// Bucket is one group in an aggregation result. Count is the number of rows
// whose metric was known; UnknownCount tallies the excluded rows so totals
// reconcile against the input size. Value carries the statistic the caller's
// Op selected; the standing stats ride along for context
type Bucket struct {
	Key          []string `json:"key"`
	Count        int64    `json:"count"`
	UnknownCount int64    `json:"unknown_count"`
	Value        float64  `json:"value"`
	Sum          float64  `json:"sum"`
	Mean         float64  `json:"mean"`
	P50          float64  `json:"p50"`
	P90          float64  `json:"p90"`
}

// Fold operations accepted by Aggregate
const (
	OpSum        = "sum"
	OpMean       = "mean"
	OpCount      = "count"
	OpPercentile = "percentile"
)

// Op selects the statistic reported in Bucket.Value. Percentile is only
// consulted when Name is OpPercentile
type Op struct {
	Name       string
	Percentile float64
}

func (op Op) validate() error {
	switch op.Name {
	case OpSum, OpMean, OpCount:
		return nil
	case OpPercentile:
		if op.Percentile < 0 || op.Percentile > 100 {
			return perr.InvalidArgf("percentile %v out of range [0,100]", op.Percentile)
		}
		return nil
	default:
		return perr.InvalidArgf("unknown aggregate op %q", op.Name)
	}
}

// Dimension names accepted by Aggregate
const (
	DimCategory       = "category"
	DimWeekday        = "weekday"
	DimHour           = "hour"
	DimDate           = "date"
	DimMonth          = "month"
	DimChannel        = "channel"
	DimDurationBucket = "duration_bucket"
)

// Aggregate groups rows by the given dimension tuple and folds metric into
// per-bucket stats, reporting the op-selected statistic in Bucket.Value.
// Buckets are ordered by key tuple ascending. An unknown dimension, metric,
// or op name fails fast with an invalid-argument error
func Aggregate(rows []schema.EnrichedVideoRow, groupBy []string, metric string, op Op, opt Options) ([]Bucket, error) {
	if len(groupBy) == 0 {
		return nil, perr.InvalidArgf("group_by must name at least one dimension")
	}
	if err := op.validate(); err != nil {
		return nil, err
	}
	extractors := make([]func(schema.EnrichedVideoRow) string, 0, len(groupBy))
	for _, dim := range groupBy {
		ex, err := dimension(dim, opt.Location)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}
	if !schema.ValidMetric(metric) {
		return nil, perr.InvalidArgf("unknown metric %q", metric)
	}

	accs := make(map[string]*accumulator)
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		part, err := fold(rows[start:end], extractors, metric)
		if err != nil {
			return nil, err
		}
		for k, a := range part {
			if cur, ok := accs[k]; ok {
				cur.merge(a)
			} else {
				accs[k] = a
			}
		}
	}

	out := make([]Bucket, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.bucket(op))
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out, nil
}

// fold builds accumulators for one chunk keyed by the joined dimension tuple
func fold(rows []schema.EnrichedVideoRow, extractors []func(schema.EnrichedVideoRow) string, metric string) (map[string]*accumulator, error) {
	accs := make(map[string]*accumulator)
	for _, r := range rows {
		key := make([]string, len(extractors))
		for i, ex := range extractors {
			key[i] = ex(r)
		}
		mapKey := joinKey(key)
		a, ok := accs[mapKey]
		if !ok {
			a = &accumulator{key: key}
			accs[mapKey] = a
		}

		v, err := schema.Metric(r, metric)
		if err != nil {
			return nil, err
		}
		a.add(v)
	}
	return accs, nil
}

// accumulator is the mergeable per-bucket fold state. Percentiles need the
// full sample, so known values are retained rather than sketched
type accumulator struct {
	key     []string
	unknown int64
	sum     float64
	values  []float64
}

func (a *accumulator) add(v schema.Stat) {
	if !v.Known {
		a.unknown++
		return
	}
	a.sum += v.Value
	a.values = append(a.values, v.Value)
}

func (a *accumulator) merge(b *accumulator) {
	a.unknown += b.unknown
	a.sum += b.sum
	a.values = append(a.values, b.values...)
}

func (a *accumulator) bucket(op Op) Bucket {
	b := Bucket{
		Key:          a.key,
		Count:        int64(len(a.values)),
		UnknownCount: a.unknown,
		Sum:          a.sum,
	}
	var sorted []float64
	if len(a.values) > 0 {
		b.Mean = a.sum / float64(len(a.values))
		sorted = append([]float64(nil), a.values...)
		sort.Float64s(sorted)
		b.P50 = percentileSorted(sorted, 50)
		b.P90 = percentileSorted(sorted, 90)
	}
	switch op.Name {
	case OpSum:
		b.Value = b.Sum
	case OpMean:
		b.Value = b.Mean
	case OpCount:
		b.Value = float64(b.Count)
	case OpPercentile:
		if len(sorted) > 0 {
			b.Value = percentileSorted(sorted, op.Percentile)
		}
	}
	return b
}

// dimension resolves a dimension name to its key extractor
func dimension(name string, loc *time.Location) (func(schema.EnrichedVideoRow) string, error) {
	l := timeutil.OrUTC(loc)
	switch name {
	case DimCategory:
		return func(r schema.EnrichedVideoRow) string { return r.Category }, nil
	case DimWeekday:
		return func(r schema.EnrichedVideoRow) string { return r.PublishWeekday.String() }, nil
	case DimHour:
		// zero-padded so lexicographic bucket order matches numeric order
		return func(r schema.EnrichedVideoRow) string {
			return pad2(r.PublishHour)
		}, nil
	case DimDate:
		return func(r schema.EnrichedVideoRow) string { return timeutil.DayKey(r.PublishedAt, l) }, nil
	case DimMonth:
		return func(r schema.EnrichedVideoRow) string { return timeutil.MonthKey(r.PublishedAt, l) }, nil
	case DimChannel:
		return func(r schema.EnrichedVideoRow) string { return r.ChannelID }, nil
	case DimDurationBucket:
		return func(r schema.EnrichedVideoRow) string { return DurationBucket(r.DurationSeconds) }, nil
	default:
		return nil, perr.InvalidArgf("unknown dimension %q", name)
	}
}

// DurationBucket maps a video length into the reporting bands.
// Unknown durations get their own band so they are never silently dropped
func DurationBucket(d schema.Count) string {
	if !d.Known {
		return "unknown"
	}
	switch s := d.Value; {
	case s < 60:
		return "<1m"
	case s < 300:
		return "1-5m"
	case s < 600:
		return "5-10m"
	case s < 1200:
		return "10-20m"
	default:
		return ">20m"
	}
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// joinKey builds a map key from a dimension tuple. 0x1f never occurs in
// dimension values
func joinKey(key []string) string {
	switch len(key) {
	case 1:
		return key[0]
	default:
		out := key[0]
		for _, k := range key[1:] {
			out += "\x1f" + k
		}
		return out
	}
}

func lessKey(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
