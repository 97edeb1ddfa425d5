package analytics

import (
	"slices"
	"testing"

	"cafe-dashboard/internal/models"
)

func findRule(rules []models.AssociationRule, antecedent, consequent []string) (models.AssociationRule, bool) {
	for _, r := range rules {
		if slices.Equal(r.Antecedent, antecedent) && slices.Equal(r.Consequent, consequent) {
			return r, true
		}
	}
	return models.AssociationRule{}, false
}

func TestGenerateRules_Metrics(t *testing.T) {
	baskets := basketsOf(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"A", "C"},
		[]string{"B", "C"},
		[]string{"A", "B", "C"},
	)
	itemsets := MineFrequentItemsets(baskets, 0.4)

	// minLift below 1 so the negatively associated pairs still show up and
	// the arithmetic can be checked end to end.
	rules := GenerateRules(itemsets, 0.5, 100)

	rule, ok := findRule(rules, []string{"A"}, []string{"B"})
	if !ok {
		t.Fatalf("rule A=>B not generated: %v", rules)
	}
	if !almostEqual(rule.Support, 0.6) {
		t.Errorf("support = %v, want 0.6", rule.Support)
	}
	if !almostEqual(rule.Confidence, 0.75) {
		t.Errorf("confidence = %v, want 0.75", rule.Confidence)
	}
	if !almostEqual(rule.Lift, 0.9375) {
		t.Errorf("lift = %v, want 0.9375", rule.Lift)
	}

	// Each frequent pair yields both directions.
	if _, ok := findRule(rules, []string{"B"}, []string{"A"}); !ok {
		t.Errorf("rule B=>A not generated")
	}
}

func TestGenerateRules_LiftThreshold(t *testing.T) {
	// Latte and Croissant always co-occur; Tea never joins them.
	baskets := basketsOf(
		[]string{"Latte", "Croissant"},
		[]string{"Latte", "Croissant"},
		[]string{"Latte", "Croissant"},
		[]string{"Tea"},
		[]string{"Tea"},
	)
	itemsets := MineFrequentItemsets(baskets, 0.3)

	rules := GenerateRules(itemsets, 1.2, 10)

	if len(rules) == 0 {
		t.Fatal("expected positively associated rules")
	}
	for _, rule := range rules {
		if rule.Lift < 1.2 {
			t.Errorf("rule %v=>%v lift %v below threshold", rule.Antecedent, rule.Consequent, rule.Lift)
		}
		if rule.Confidence <= 0 || rule.Confidence > 1 {
			t.Errorf("confidence %v outside (0,1]", rule.Confidence)
		}
	}

	// support(Latte,Croissant)=0.6, confidence=1, lift=1/0.6.
	rule, ok := findRule(rules, []string{"Latte"}, []string{"Croissant"})
	if !ok {
		t.Fatalf("rule Latte=>Croissant missing: %v", rules)
	}
	if !almostEqual(rule.Lift, 1.0/0.6) {
		t.Errorf("lift = %v, want %v", rule.Lift, 1.0/0.6)
	}
}

func TestGenerateRules_AllBipartitions(t *testing.T) {
	// One frequent 3-itemset must produce 2^3-2 = 6 proper bipartitions.
	itemsets := []models.Itemset{
		{Items: []string{"A"}, Support: 0.5},
		{Items: []string{"B"}, Support: 0.5},
		{Items: []string{"C"}, Support: 0.5},
		{Items: []string{"A", "B"}, Support: 0.5},
		{Items: []string{"A", "C"}, Support: 0.5},
		{Items: []string{"B", "C"}, Support: 0.5},
		{Items: []string{"A", "B", "C"}, Support: 0.5},
	}

	rules := GenerateRules(itemsets, 0, 100)

	count := 0
	for _, r := range rules {
		if len(r.Antecedent)+len(r.Consequent) == 3 {
			count++
			if len(r.Antecedent) == 0 || len(r.Consequent) == 0 {
				t.Errorf("improper bipartition: %v => %v", r.Antecedent, r.Consequent)
			}
		}
	}
	if count != 6 {
		t.Errorf("3-itemset bipartitions = %d, want 6", count)
	}
}

func TestGenerateRules_SortAndTruncate(t *testing.T) {
	baskets := basketsOf(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"C", "D"},
		[]string{"C", "D"},
		[]string{"C", "D"},
		[]string{"E"},
	)
	itemsets := MineFrequentItemsets(baskets, 0.2)

	rules := GenerateRules(itemsets, 1.0, 100)
	for i := 1; i < len(rules); i++ {
		if rules[i].Lift > rules[i-1].Lift {
			t.Errorf("rules not sorted by lift desc at %d: %v > %v", i, rules[i].Lift, rules[i-1].Lift)
		}
		if rules[i].Lift == rules[i-1].Lift && rules[i].Confidence > rules[i-1].Confidence {
			t.Errorf("lift tie not broken by confidence desc at %d", i)
		}
	}

	truncated := GenerateRules(itemsets, 1.0, 2)
	if len(truncated) != 2 {
		t.Errorf("truncated len = %d, want 2", len(truncated))
	}
	if len(rules) >= 2 && (truncated[0].Lift != rules[0].Lift || truncated[1].Lift != rules[1].Lift) {
		t.Errorf("truncation changed ordering")
	}
}

func TestGenerateRules_EmptyInputs(t *testing.T) {
	if got := GenerateRules(nil, 1.2, 10); len(got) != 0 {
		t.Errorf("rules from no itemsets = %v, want empty", got)
	}

	// Singletons alone cannot form rules.
	onlySingles := []models.Itemset{
		{Items: []string{"A"}, Support: 0.9},
		{Items: []string{"B"}, Support: 0.8},
	}
	if got := GenerateRules(onlySingles, 1.2, 10); len(got) != 0 {
		t.Errorf("rules from singletons = %v, want empty", got)
	}
}
