package aggregate

import (
	"sort"

	"github.com/harrison/diskreport/internal/models"
)

// GroupByOwner partitions records by their exact owner string. Groups are
// ordered by owner ascending and the records of each group by size
// descending, ties in input order. Sentinel owners ("N/A", "unknown") form
// groups like any other owner.
func GroupByOwner(records []models.FilteredRecord) []models.OwnerGroup {
	index := make(map[string]int)
	var groups []models.OwnerGroup

	for _, rec := range records {
		owner := rec.Record.Owner
		i, ok := index[owner]
		if !ok {
			i = len(groups)
			index[owner] = i
			groups = append(groups, models.OwnerGroup{Owner: owner})
		}
		groups[i].Records = append(groups[i].Records, rec)
		groups[i].SubtotalBytes += rec.Bytes
	}

	for i := range groups {
		groups[i].Records = SortBySizeDesc(groups[i].Records)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Owner < groups[j].Owner
	})
	return groups
}
