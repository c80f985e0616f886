package repo

import (
	"context"

	"tubelens/internal/core/schema"
	"tubelens/internal/platform/store"
)

// EnrichedTable is the columnar sink for derived video rows
const EnrichedTable = "videos_enriched"

// Warehouse writes derived rows to the columnar store.
// A nil inner client turns every write into a no-op so the API can run
// without ClickHouse in local setups
type Warehouse struct {
	ch store.Clickhouse
}

// NewWarehouse wraps the ClickHouse seam
func NewWarehouse(ch store.Clickhouse) Warehouse { return Warehouse{ch: ch} }

// InsertEnriched appends one batch of derived rows, tagged with the batch id
func (w Warehouse) InsertEnriched(ctx context.Context, batchID string, rows []schema.EnrichedVideoRow) error {
	if w.ch == nil || len(rows) == 0 {
		return nil
	}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			batchID,
			r.VideoID,
			r.ChannelID,
			r.Title,
			r.PublishedAt,
			nullCount(r.DurationSeconds),
			r.Category,
			nullCount(r.Views),
			nullCount(r.Likes),
			nullCount(r.Comments),
			nullStat(r.EngagementRate),
			nullStat(r.ViewsPerDay),
			uint8(r.PublishWeekday),
			uint8(r.PublishHour),
		})
	}
	return w.ch.Insert(ctx, EnrichedTable, data)
}
