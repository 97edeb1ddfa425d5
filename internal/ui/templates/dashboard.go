package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the single page of the application. Filter state lives in
// datastar signals; every change re-fetches /sse/report, which patches the
// KPI cards, the rules table and the chart signals.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Café Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f4f1; color: #2c2420; }
h1 { text-align: center; padding: 1rem 0 0; }
.filters { display: flex; gap: 2rem; padding: 10px 30px; }
.filters label { font-weight: 600; margin-right: .5rem; }
.kpi-row { display: flex; justify-content: space-around; margin: 20px; }
.kpi-card { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.12); font-size: 20px; }
.kpi-label { display: block; font-size: .75rem; color: #8a7f76; text-transform: uppercase; }
.chart-panel { background: #fff; margin: 20px 30px; padding: 1rem; border-radius: 8px; }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { text-align: left; padding: .5rem .75rem; border-bottom: 1px solid #eee; }
.empty-note { color: #8a7f76; padding: .5rem .75rem; }
</style>
</head>
<body data-signals="{locations: [], months: [], allLocations: [], allMonths: [], monthlyData: [], weekdayData: [], heatmapData: [], productData: []}"
      data-on-load="@get('/sse/filters'); @get('/sse/report')">
<h1>Café Sales Dashboard</h1>

<div class="filters">
<div>
<label for="location-filter">Store location</label>
<select id="location-filter" multiple data-bind-locations data-on-change="@get('/sse/report')"
        data-attr-size="$allLocations.length || 1">
<template data-for="loc in $allLocations"><option data-attr-value="loc" data-text="loc" selected></option></template>
</select>
</div>
<div>
<label for="month-filter">Month</label>
<select id="month-filter" multiple data-bind-months data-on-change="@get('/sse/report')"
        data-attr-size="$allMonths.length || 1">
<template data-for="m in $allMonths"><option data-attr-value="m" data-text="m" selected></option></template>
</select>
</div>
</div>

<div id="kpi-cards" class="kpi-row"></div>

<div class="chart-panel"><h3>Monthly revenue</h3><canvas id="monthly-chart" data-chart="monthlyData"></canvas></div>
<div class="chart-panel"><h3>Revenue by weekday</h3><canvas id="weekday-chart" data-chart="weekdayData"></canvas></div>
<div class="chart-panel"><h3>Hour &times; weekday heatmap</h3><canvas id="heatmap-chart" data-chart="heatmapData"></canvas></div>
<div class="chart-panel"><h3>Top products</h3><canvas id="products-chart" data-chart="productData"></canvas></div>

<div class="chart-panel">
<h3>Products bought together</h3>
<div id="rules-content"></div>
</div>
</body>
</html>`
