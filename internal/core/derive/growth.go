package derive

import (
	"sort"

	"tubelens/internal/core/schema"
)

// ChannelGrowth folds snapshot history into one GrowthRow per channel.
// Deltas are last minus first snapshot; a channel observed only once keeps
// unknown deltas rather than fabricating a zero. Output is ordered by
// channel_id ascending
func ChannelGrowth(snaps []schema.ChannelSnapshot) []schema.GrowthRow {
	byChannel := make(map[string][]schema.ChannelSnapshot)
	for _, s := range snaps {
		byChannel[s.ChannelID] = append(byChannel[s.ChannelID], s)
	}

	ids := make([]string, 0, len(byChannel))
	for id := range byChannel {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]schema.GrowthRow, 0, len(ids))
	for _, id := range ids {
		hist := byChannel[id]
		sort.Slice(hist, func(i, j int) bool {
			return hist[i].FetchedAt.Before(hist[j].FetchedAt)
		})

		first, last := hist[0], hist[len(hist)-1]
		row := schema.GrowthRow{
			ChannelID: id,
			Samples:   len(hist),
			FirstAt:   first.FetchedAt,
			LastAt:    last.FetchedAt,
		}
		if len(hist) >= 2 {
			row.SubscriberDelta = countDelta(first.Subscribers, last.Subscribers)
			row.ViewDelta = countDelta(first.TotalViews, last.TotalViews)
			row.VideoDelta = countDelta(first.VideoCount, last.VideoCount)
		}
		out = append(out, row)
	}
	return out
}

// countDelta subtracts two tri-state counts; either side unknown propagates
func countDelta(first, last schema.Count) schema.Stat {
	if !first.Known || !last.Known {
		return schema.UnknownStat()
	}
	return schema.KnownStat(float64(last.Value - first.Value))
}
