package analytics

import (
	"slices"
	"strings"

	"cafe-dashboard/internal/dataset"
	"cafe-dashboard/internal/models"
)

// ComputeKPIs returns the scalar cards for a filtered subset. AverageTicket
// is 0 when the subset holds no transactions.
func ComputeKPIs(subset *dataset.Dataset) models.KPIs {
	var kpis models.KPIs
	seen := make(map[int]struct{})

	for _, line := range subset.Lines() {
		kpis.TotalRevenue += line.Revenue
		kpis.TotalQuantity += line.Quantity
		seen[line.TransactionID] = struct{}{}
	}

	kpis.TransactionCount = len(seen)
	if kpis.TransactionCount > 0 {
		kpis.AverageTicket = kpis.TotalRevenue / float64(kpis.TransactionCount)
	}
	return kpis
}

// RevenueByMonth groups revenue by year-month bucket, sorted ascending.
func RevenueByMonth(subset *dataset.Dataset) []models.MonthRevenue {
	groups := make(map[string]float64)
	for _, line := range subset.Lines() {
		groups[line.Month] += line.Revenue
	}

	result := make([]models.MonthRevenue, 0, len(groups))
	for month, revenue := range groups {
		result = append(result, models.MonthRevenue{Month: month, Revenue: revenue})
	}
	slices.SortFunc(result, func(a, b models.MonthRevenue) int {
		return strings.Compare(a.Month, b.Month)
	})
	return result
}

// RevenueByWeekday returns exactly seven entries in Monday-first canonical
// order. Weekdays absent from the subset contribute revenue 0.
func RevenueByWeekday(subset *dataset.Dataset) []models.WeekdayRevenue {
	groups := make(map[string]float64, len(models.Weekdays))
	for _, line := range subset.Lines() {
		groups[line.Weekday] += line.Revenue
	}

	result := make([]models.WeekdayRevenue, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		result = append(result, models.WeekdayRevenue{Weekday: day, Revenue: groups[day]})
	}
	return result
}

// RevenueHeatmap pivots revenue into a weekday x hour matrix, weekday rows
// in canonical order, hour columns 0-23, missing cells 0.
func RevenueHeatmap(subset *dataset.Dataset) []models.HeatmapRow {
	rowIndex := make(map[string]int, len(models.Weekdays))
	rows := make([]models.HeatmapRow, len(models.Weekdays))
	for i, day := range models.Weekdays {
		rows[i].Weekday = day
		rowIndex[day] = i
	}

	for _, line := range subset.Lines() {
		rows[rowIndex[line.Weekday]].Hours[line.Hour] += line.Revenue
	}
	return rows
}

// TopProducts returns the n products with the highest total revenue,
// descending. Products are accumulated in first-encounter order and sorted
// stably, so exact revenue ties keep input order.
func TopProducts(subset *dataset.Dataset, n int) []models.ProductRevenue {
	index := make(map[string]int)
	result := make([]models.ProductRevenue, 0)

	for _, line := range subset.Lines() {
		i, ok := index[line.ProductDetail]
		if !ok {
			i = len(result)
			index[line.ProductDetail] = i
			result = append(result, models.ProductRevenue{ProductDetail: line.ProductDetail})
		}
		result[i].Revenue += line.Revenue
	}

	slices.SortStableFunc(result, func(a, b models.ProductRevenue) int {
		if a.Revenue > b.Revenue {
			return -1
		}
		if a.Revenue < b.Revenue {
			return 1
		}
		return 0
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}
