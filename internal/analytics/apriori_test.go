package analytics

import (
	"reflect"
	"slices"
	"testing"

	"cafe-dashboard/internal/dataset"
	"cafe-dashboard/internal/models"
)

func basketsOf(itemLists ...[]string) []Basket {
	baskets := make([]Basket, 0, len(itemLists))
	for _, items := range itemLists {
		b := make(Basket)
		for _, item := range items {
			b[item] = struct{}{}
		}
		baskets = append(baskets, b)
	}
	return baskets
}

func supportOf(t *testing.T, itemsets []models.Itemset, items ...string) float64 {
	t.Helper()
	for _, is := range itemsets {
		if slices.Equal(is.Items, items) {
			return is.Support
		}
	}
	t.Fatalf("itemset %v not found in %v", items, itemsets)
	return 0
}

func TestBuildBaskets(t *testing.T) {
	subset := dataset.New([]models.TransactionLine{
		{TransactionID: 1, ProductDetail: "Latte"},
		{TransactionID: 1, ProductDetail: "Croissant"},
		{TransactionID: 1, ProductDetail: "Latte"}, // duplicate collapses
		{TransactionID: 2, ProductDetail: "Tea"},
	})

	baskets := BuildBaskets(subset)

	if len(baskets) != 2 {
		t.Fatalf("baskets = %d, want 2", len(baskets))
	}
	if len(baskets[0]) != 2 {
		t.Errorf("first basket size = %d, want 2 distinct products", len(baskets[0]))
	}
	if !baskets[0].Contains([]string{"Latte", "Croissant"}) {
		t.Errorf("first basket missing members: %v", baskets[0])
	}
	if !baskets[1].Contains([]string{"Tea"}) || baskets[1].Contains([]string{"Latte"}) {
		t.Errorf("second basket = %v, want {Tea}", baskets[1])
	}
}

func TestMineFrequentItemsets(t *testing.T) {
	baskets := basketsOf(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"A", "C"},
		[]string{"B", "C"},
		[]string{"A", "B", "C"},
	)

	itemsets := MineFrequentItemsets(baskets, 0.4)

	if got := supportOf(t, itemsets, "A"); got != 0.8 {
		t.Errorf("support(A) = %v, want 0.8", got)
	}
	if got := supportOf(t, itemsets, "B"); got != 0.8 {
		t.Errorf("support(B) = %v, want 0.8", got)
	}
	if got := supportOf(t, itemsets, "C"); got != 0.6 {
		t.Errorf("support(C) = %v, want 0.6", got)
	}
	if got := supportOf(t, itemsets, "A", "B"); got != 0.6 {
		t.Errorf("support(A,B) = %v, want 0.6", got)
	}
	if got := supportOf(t, itemsets, "A", "C"); got != 0.4 {
		t.Errorf("support(A,C) = %v, want 0.4", got)
	}
	if got := supportOf(t, itemsets, "B", "C"); got != 0.4 {
		t.Errorf("support(B,C) = %v, want 0.4", got)
	}

	// {A,B,C} appears in 1 of 5 baskets: below threshold.
	if len(itemsets) != 6 {
		t.Errorf("itemsets = %d, want 6 (three singletons, three pairs)", len(itemsets))
	}
}

func TestMineFrequentItemsets_ThresholdExcludes(t *testing.T) {
	baskets := basketsOf(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"A", "C"},
		[]string{"B", "C"},
		[]string{"A", "B", "C"},
	)

	itemsets := MineFrequentItemsets(baskets, 0.5)

	for _, is := range itemsets {
		if is.Support < 0.5 {
			t.Errorf("itemset %v support %v below threshold", is.Items, is.Support)
		}
	}
	if got := supportOf(t, itemsets, "A", "B"); got != 0.6 {
		t.Errorf("support(A,B) = %v, want 0.6", got)
	}
}

// No itemset may be frequent unless every proper non-empty subset is too.
func TestMineFrequentItemsets_AntiMonotonicity(t *testing.T) {
	baskets := basketsOf(
		[]string{"A", "B", "C", "D"},
		[]string{"A", "B", "C"},
		[]string{"A", "B", "D"},
		[]string{"A", "C"},
		[]string{"B", "C"},
		[]string{"A", "B"},
	)

	itemsets := MineFrequentItemsets(baskets, 0.3)

	supports := make(map[string]float64)
	for _, is := range itemsets {
		supports[itemsetKey(is.Items)] = is.Support
	}

	for _, is := range itemsets {
		k := len(is.Items)
		if k < 2 {
			continue
		}
		for drop := 0; drop < k; drop++ {
			subset := make([]string, 0, k-1)
			for i, item := range is.Items {
				if i != drop {
					subset = append(subset, item)
				}
			}
			if _, ok := supports[itemsetKey(subset)]; !ok {
				t.Errorf("itemset %v frequent but subset %v is not", is.Items, subset)
			}
		}
	}
}

func TestMineFrequentItemsets_Deterministic(t *testing.T) {
	baskets := basketsOf(
		[]string{"Latte", "Croissant"},
		[]string{"Latte", "Scone"},
		[]string{"Croissant", "Scone", "Latte"},
		[]string{"Tea"},
	)

	first := MineFrequentItemsets(baskets, 0.25)
	second := MineFrequentItemsets(baskets, 0.25)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("mining is not reproducible:\n%v\n%v", first, second)
	}

	for _, is := range first {
		if !slices.IsSorted(is.Items) {
			t.Errorf("itemset members not sorted: %v", is.Items)
		}
	}
}

func TestMineFrequentItemsets_Empty(t *testing.T) {
	if got := MineFrequentItemsets(nil, 0.02); len(got) != 0 {
		t.Errorf("mining no baskets = %v, want empty", got)
	}
}
