package analytics

import (
	"cafe-dashboard/internal/dataset"
)

// Basket is the set of distinct products purchased in one transaction.
// Quantity is irrelevant to mining: duplicate products within a checkout
// collapse to a single membership.
type Basket map[string]struct{}

func (b Basket) Contains(items []string) bool {
	for _, item := range items {
		if _, ok := b[item]; !ok {
			return false
		}
	}
	return true
}

// BuildBaskets groups a filtered subset by transaction identifier, one
// basket per distinct transaction. Basket order is unspecified by the
// contract; the slice follows first-encounter order of the transactions so
// mining stays deterministic.
func BuildBaskets(subset *dataset.Dataset) []Basket {
	byTransaction := make(map[int]Basket)
	order := make([]int, 0)

	for _, line := range subset.Lines() {
		basket, ok := byTransaction[line.TransactionID]
		if !ok {
			basket = make(Basket)
			byTransaction[line.TransactionID] = basket
			order = append(order, line.TransactionID)
		}
		basket[line.ProductDetail] = struct{}{}
	}

	baskets := make([]Basket, 0, len(order))
	for _, id := range order {
		baskets = append(baskets, byTransaction[id])
	}
	return baskets
}
