package analytics

import (
	"slices"
	"sort"
	"strings"

	"cafe-dashboard/internal/models"
)

// itemsetKey canonicalizes a sorted itemset for map lookups. The separator
// is a control character that cannot appear in product names.
const itemsetKeySep = "\x1f"

func itemsetKey(items []string) string {
	return strings.Join(items, itemsetKeySep)
}

// MineFrequentItemsets runs level-wise Apriori over the baskets: 1-itemsets
// first, then k-candidates joined from frequent (k-1)-itemsets sharing a
// (k-2)-prefix, pruned by the anti-monotone property before any support
// counting. A candidate with an infrequent subset is discarded without
// touching the baskets; that pruning is the correctness contract of the
// algorithm, not a shortcut.
//
// Every returned itemset has sorted members; the output is the union of all
// levels in level order, lexicographic within a level, so identical inputs
// always produce identical output.
func MineFrequentItemsets(baskets []Basket, minSupport float64) []models.Itemset {
	if len(baskets) == 0 {
		return nil
	}
	total := float64(len(baskets))

	counts := make(map[string]int)
	for _, basket := range baskets {
		for item := range basket {
			counts[item]++
		}
	}

	supports := make(map[string]float64)
	level := make([][]string, 0)
	for item, count := range counts {
		support := float64(count) / total
		if support >= minSupport {
			level = append(level, []string{item})
			supports[item] = support
		}
	}
	sortLevel(level)

	frequent := make([]models.Itemset, 0, len(level))
	for _, items := range level {
		frequent = append(frequent, models.Itemset{Items: items, Support: supports[itemsetKey(items)]})
	}

	for k := 2; len(level) > 1; k++ {
		candidates := joinLevel(level, k)

		next := make([][]string, 0)
		for _, candidate := range candidates {
			if !allSubsetsFrequent(candidate, supports) {
				continue
			}

			matched := 0
			for _, basket := range baskets {
				if basket.Contains(candidate) {
					matched++
				}
			}
			support := float64(matched) / total
			if support < minSupport {
				continue
			}

			supports[itemsetKey(candidate)] = support
			next = append(next, candidate)
			frequent = append(frequent, models.Itemset{Items: candidate, Support: support})
		}

		level = next
	}

	return frequent
}

// joinLevel generates k-candidates from the lexicographically sorted
// frequent (k-1)-itemsets: two itemsets sharing their first k-2 items join
// into their union. Sorted input keeps candidate members and candidate
// order sorted too.
func joinLevel(level [][]string, k int) [][]string {
	candidates := make([][]string, 0)
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			if !slices.Equal(level[i][:k-2], level[j][:k-2]) {
				// sorted level: no later itemset shares this prefix either
				break
			}
			candidate := make([]string, 0, k)
			candidate = append(candidate, level[i]...)
			candidate = append(candidate, level[j][k-2])
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// allSubsetsFrequent checks every (k-1)-subset of the candidate against the
// support table.
func allSubsetsFrequent(candidate []string, supports map[string]float64) bool {
	subset := make([]string, 0, len(candidate)-1)
	for drop := range candidate {
		subset = subset[:0]
		for i, item := range candidate {
			if i != drop {
				subset = append(subset, item)
			}
		}
		if _, ok := supports[itemsetKey(subset)]; !ok {
			return false
		}
	}
	return true
}

func sortLevel(level [][]string) {
	sort.Slice(level, func(i, j int) bool {
		return slices.Compare(level[i], level[j]) < 0
	})
}
