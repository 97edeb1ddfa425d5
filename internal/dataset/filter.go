package dataset

import "cafe-dashboard/internal/models"

// Filter returns the subset of lines whose store location and month bucket
// are both in the selection. It is a pure predicate: the receiver is never
// mutated and line order is preserved. An empty selection yields an empty
// subset, which downstream aggregation handles as a normal case.
func (d *Dataset) Filter(sel models.FilterSelection) *Dataset {
	locations := toSet(sel.Locations)
	months := toSet(sel.Months)

	subset := make([]models.TransactionLine, 0)
	for _, line := range d.lines {
		if _, ok := locations[line.StoreLocation]; !ok {
			continue
		}
		if _, ok := months[line.Month]; !ok {
			continue
		}
		subset = append(subset, line)
	}
	return &Dataset{lines: subset}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
