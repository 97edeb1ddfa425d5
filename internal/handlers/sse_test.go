package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cafe-dashboard/internal/models"
)

func TestNewSSEHandlers(t *testing.T) {
	engine := testEngine()
	logger := testLogger()

	handlers := NewSSEHandlers(engine, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.engine != engine {
		t.Error("NewSSEHandlers() should set engine field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_renderKPICards(t *testing.T) {
	handlers := NewSSEHandlers(testEngine(), testLogger())

	report := &models.Report{
		KPIs: models.KPIs{
			TotalRevenue:     1234.5,
			TransactionCount: 42,
			AverageTicket:    29.39,
			TotalQuantity:    77,
		},
	}

	html, err := handlers.renderKPICards(report)
	if err != nil {
		t.Fatalf("renderKPICards() failed: %v", err)
	}

	expectedContent := []string{
		`id="kpi-cards"`,
		"Total Revenue",
		"$1234.50",
		"Transactions",
		"42",
		"Average Ticket",
		"$29.39",
		"Quantity Sold",
		"77",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_renderRulesTable(t *testing.T) {
	handlers := NewSSEHandlers(testEngine(), testLogger())

	report := &models.Report{
		AssociationRules: []models.AssociationRule{
			{
				Antecedent: []string{"Latte"},
				Consequent: []string{"Croissant"},
				Support:    0.6,
				Confidence: 0.75,
				Lift:       1.25,
			},
		},
	}

	html, err := handlers.renderRulesTable(report)
	if err != nil {
		t.Fatalf("renderRulesTable() failed: %v", err)
	}

	expectedContent := []string{
		`id="rules-content"`,
		"<table class=\"modern-table\">",
		"Latte",
		"Croissant",
		"0.600",
		"0.750",
		"1.250",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_renderRulesTable_Empty(t *testing.T) {
	handlers := NewSSEHandlers(testEngine(), testLogger())

	html, err := handlers.renderRulesTable(&models.Report{})
	if err != nil {
		t.Fatalf("renderRulesTable() failed: %v", err)
	}

	if !strings.Contains(html, "No product associations") {
		t.Errorf("empty rule list should render the placeholder, got: %s", html)
	}
	if strings.Contains(html, "<table") {
		t.Error("empty rule list should not render a table")
	}
}

func TestSSEHandlers_HandleReport(t *testing.T) {
	handlers := NewSSEHandlers(testEngine(), testLogger())

	// Datastar GET requests carry the signal state in this query parameter.
	req := httptest.NewRequest(http.MethodGet,
		`/sse/report?datastar=`+`{"locations":["Astoria"],"months":["2023-04"]}`, nil)
	w := httptest.NewRecorder()

	handlers.HandleReport(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain text/event-stream", ct)
	}

	body := w.Body.String()
	for _, content := range []string{"kpi-cards", "rules-content", "monthlyData", "weekdayData"} {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleFilters(t *testing.T) {
	handlers := NewSSEHandlers(testEngine(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/filters", nil)
	w := httptest.NewRecorder()

	handlers.HandleFilters(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain text/event-stream", ct)
	}

	body := w.Body.String()
	for _, content := range []string{"allLocations", "allMonths", "Astoria"} {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q", content)
		}
	}
}
