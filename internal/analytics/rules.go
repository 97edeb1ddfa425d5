package analytics

import (
	"slices"

	"cafe-dashboard/internal/models"
)

// GenerateRules derives directed association rules from the mined frequent
// itemsets. Every itemset of size >= 2 is split into all 2^k-2 proper
// bipartitions; each rule carries the support of the union, confidence
// support(union)/support(antecedent) and lift confidence/support(consequent).
// Rules below minLift are dropped. The result is sorted descending by lift,
// then confidence, then support, stable beyond that, and truncated to topN.
//
// No frequent itemset of size >= 2, or no baskets at all, yields an empty
// list: a normal outcome, not an error.
func GenerateRules(itemsets []models.Itemset, minLift float64, topN int) []models.AssociationRule {
	supports := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		supports[itemsetKey(is.Items)] = is.Support
	}

	rules := make([]models.AssociationRule, 0)
	for _, is := range itemsets {
		k := len(is.Items)
		if k < 2 {
			continue
		}

		for mask := 1; mask < (1<<k)-1; mask++ {
			antecedent := make([]string, 0, k-1)
			consequent := make([]string, 0, k-1)
			for i, item := range is.Items {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, item)
				} else {
					consequent = append(consequent, item)
				}
			}

			// Anti-monotonicity guarantees both sides are in the table.
			antSupport := supports[itemsetKey(antecedent)]
			conSupport := supports[itemsetKey(consequent)]
			if antSupport == 0 || conSupport == 0 {
				continue
			}

			confidence := is.Support / antSupport
			lift := confidence / conSupport
			if lift < minLift {
				continue
			}

			rules = append(rules, models.AssociationRule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    is.Support,
				Confidence: confidence,
				Lift:       lift,
			})
		}
	}

	slices.SortStableFunc(rules, func(a, b models.AssociationRule) int {
		if c := compareDesc(a.Lift, b.Lift); c != 0 {
			return c
		}
		if c := compareDesc(a.Confidence, b.Confidence); c != 0 {
			return c
		}
		return compareDesc(a.Support, b.Support)
	})

	if len(rules) > topN {
		rules = rules[:topN]
	}
	return rules
}

func compareDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
