package handlers

import (
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"cafe-dashboard/internal/analytics"
	"cafe-dashboard/internal/models"
	"github.com/starfederation/datastar-go/datastar"
)

var kpiCardsTemplate = template.Must(template.New("kpiCards").Parse(`
<div id="kpi-cards" class="kpi-row">
<div class="kpi-card"><span class="kpi-label">Total Revenue</span><strong>${{printf "%.2f" .KPIs.TotalRevenue}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Transactions</span><strong>{{.KPIs.TransactionCount}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Average Ticket</span><strong>${{printf "%.2f" .KPIs.AverageTicket}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Quantity Sold</span><strong>{{.KPIs.TotalQuantity}}</strong></div>
</div>`))

var rulesTableTemplate = template.Must(template.New("rulesTable").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
<div id="rules-content">
{{if .Rules}}<table class="modern-table">
<thead><tr><th>Products</th><th>Support</th><th>Confidence</th><th>Lift</th></tr></thead>
<tbody>
{{range .Rules}}<tr>
<td>{{join .Antecedent ", "}} &#10140; {{join .Consequent ", "}}</td>
<td>{{printf "%.3f" .Support}}</td>
<td>{{printf "%.3f" .Confidence}}</td>
<td><strong>{{printf "%.3f" .Lift}}</strong></td>
</tr>{{end}}
</tbody>
</table>{{else}}<p class="empty-note">No product associations found for this selection.</p>{{end}}
</div>`))

type SSEHandlers struct {
	engine *analytics.Engine
	logger *slog.Logger
}

func NewSSEHandlers(engine *analytics.Engine, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		engine: engine,
		logger: logger,
	}
}

// filterSignals is the datastar signal shape the dashboard page keeps for
// its two multi-select filters.
type filterSignals struct {
	Locations []string `json:"locations"`
	Months    []string `json:"months"`
}

func (h *SSEHandlers) renderKPICards(report *models.Report) (string, error) {
	var buf strings.Builder
	err := kpiCardsTemplate.Execute(&buf, report)
	return buf.String(), err
}

func (h *SSEHandlers) renderRulesTable(report *models.Report) (string, error) {
	var buf strings.Builder
	err := rulesTableTemplate.Execute(&buf, map[string]any{"Rules": report.AssociationRules})
	return buf.String(), err
}

// HandleReport recomputes the full report for the filter signals sent by
// the page and patches every dashboard region in one SSE response: KPI
// cards and the rules table as HTML, the chart series as signals.
func (h *SSEHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signals := filterSignals{}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read filter signals", "error", err)
		sse.PatchElements(`<div id="kpi-cards">Invalid filter state</div>`)
		return
	}

	report, err := h.engine.Run(r.Context(), models.FilterSelection{
		Locations: signals.Locations,
		Months:    signals.Months,
	})
	if err != nil {
		var selErr *analytics.SelectionError
		if stderrors.As(err, &selErr) {
			sse.PatchElements(`<div id="kpi-cards">` + template.HTMLEscapeString(selErr.Error()) + `</div>`)
			return
		}
		h.logger.Error("analytics run", "error", err)
		return
	}

	kpiHTML, err := h.renderKPICards(report)
	if err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(kpiHTML)

	rulesHTML, err := h.renderRulesTable(report)
	if err != nil {
		h.logger.Error("render rules table", "error", err)
		return
	}
	sse.PatchElements(rulesHTML)

	chartSignals, err := json.Marshal(map[string]any{
		"monthlyData": report.RevenueByMonth,
		"weekdayData": report.RevenueByWeekday,
		"heatmapData": report.RevenueHeatmap,
		"productData": report.TopProducts,
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(chartSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleFilters pushes the distinct locations and months into the page
// signals so the dropdowns can populate themselves on load.
func (h *SSEHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	options := h.engine.FilterOptions()
	jsonData, err := json.Marshal(map[string]any{
		"allLocations": options.Locations,
		"allMonths":    options.Months,
		"locations":    options.Locations,
		"months":       options.Months,
	})
	if err != nil {
		h.logger.Error("marshal filter options", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
