package models

import "time"

// Weekdays is the canonical weekday order used by every weekday-keyed
// series and by the heatmap rows.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TransactionLine is one purchased line item of a checkout. Revenue, Hour,
// Weekday and Month are derived once at load time and never recomputed.
type TransactionLine struct {
	TransactionID int
	StoreLocation string
	Date          time.Time
	ProductDetail string
	Quantity      int
	UnitPrice     float64
	Revenue       float64
	Hour          int
	Weekday       string
	Month         string
}

// FilterSelection is one dashboard query: which store locations and which
// year-month buckets to keep. Empty slices are a valid selection and match
// nothing.
type FilterSelection struct {
	Locations []string `json:"locations"`
	Months    []string `json:"months"`
}

type KPIs struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	AverageTicket    float64 `json:"average_ticket"`
	TotalQuantity    int     `json:"total_quantity"`
}

type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type WeekdayRevenue struct {
	Weekday string  `json:"weekday"`
	Revenue float64 `json:"revenue"`
}

// HeatmapRow is one weekday row of the weekday x hour revenue matrix.
// Hours is indexed by hour of day, 0 through 23, missing cells are 0.
type HeatmapRow struct {
	Weekday string      `json:"weekday"`
	Hours   [24]float64 `json:"hours"`
}

type ProductRevenue struct {
	ProductDetail string  `json:"product_detail"`
	Revenue       float64 `json:"revenue"`
}

// Itemset is a frequent itemset: sorted distinct products plus the fraction
// of baskets containing all of them.
type Itemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
}

// AssociationRule is a directed rule antecedent => consequent derived from a
// frequent itemset. Support is the support of the union.
type AssociationRule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// Report is the full analytics result for one filter selection, the entire
// surface the presentation layer consumes.
type Report struct {
	KPIs             KPIs              `json:"kpis"`
	RevenueByMonth   []MonthRevenue    `json:"revenue_by_month"`
	RevenueByWeekday []WeekdayRevenue  `json:"revenue_by_weekday"`
	RevenueHeatmap   []HeatmapRow      `json:"revenue_heatmap"`
	TopProducts      []ProductRevenue  `json:"top_products"`
	AssociationRules []AssociationRule `json:"association_rules"`
}

// FilterOptions lists the distinct values the dashboard dropdowns offer.
type FilterOptions struct {
	Locations []string `json:"locations"`
	Months    []string `json:"months"`
}
