package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"cafe-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 10000
	maxWorkers = 10

	dateLayout  = "2006-01-02"
	timeLayout  = "15:04:05"
	monthLayout = "2006-01"
)

var requiredColumns = []string{
	"transaction_id",
	"transaction_date",
	"transaction_time",
	"transaction_qty",
	"unit_price",
	"store_location",
	"product_detail",
}

// LoadError is a fatal dataset load failure: a missing column or an
// unparseable row. Load is a one-shot startup operation, so callers are
// expected to exit on it rather than retry.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Dataset is an immutable ordered sequence of transaction lines, created
// once at startup and shared read-only by every query.
type Dataset struct {
	lines []models.TransactionLine
}

// New wraps already-derived lines in a Dataset. Used by tests and by Filter.
func New(lines []models.TransactionLine) *Dataset {
	return &Dataset{lines: lines}
}

func (d *Dataset) Len() int {
	return len(d.lines)
}

// Lines returns the backing slice. Callers must treat it as read-only.
func (d *Dataset) Lines() []models.TransactionLine {
	return d.lines
}

// Locations returns the distinct store locations, sorted.
func (d *Dataset) Locations() []string {
	return d.distinct(func(l models.TransactionLine) string { return l.StoreLocation })
}

// Months returns the distinct year-month buckets, sorted ascending.
func (d *Dataset) Months() []string {
	return d.distinct(func(l models.TransactionLine) string { return l.Month })
}

func (d *Dataset) distinct(key func(models.TransactionLine) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, line := range d.lines {
		k := key(line)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

// columnIndex maps the header row to field positions. Column order in the
// source file is not assumed.
type columnIndex struct {
	id, date, timeOfDay, qty, price, location, product int
}

func mapColumns(header string) (columnIndex, error) {
	fields := strings.Split(header, ",")
	positions := make(map[string]int, len(fields))
	for i, f := range fields {
		positions[strings.TrimSpace(f)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			return columnIndex{}, fmt.Errorf("missing required column %q", col)
		}
	}

	return columnIndex{
		id:        positions["transaction_id"],
		date:      positions["transaction_date"],
		timeOfDay: positions["transaction_time"],
		qty:       positions["transaction_qty"],
		price:     positions["unit_price"],
		location:  positions["store_location"],
		product:   positions["product_detail"],
	}, nil
}

// Load reads the sales CSV and derives the computed fields (revenue, hour,
// weekday, month bucket) for every line. Any schema violation or
// unparseable row is fatal: Load returns a *LoadError and no partial
// dataset. Input order is preserved.
func Load(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()
	logger := slog.Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024) // 10MB buffer

	if !scanner.Scan() {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("empty file")}
	}

	cols, err := mapColumns(scanner.Text())
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	lines := make([]models.TransactionLine, 0, batchSize)
	batch := make([]string, 0, batchSize)
	batchNos := make([]int, 0, batchSize)
	lineNo := 1 // header was line 1

	flush := func() error {
		parsed := make([]models.TransactionLine, len(batch))
		if err := parseBatch(ctx, batch, cols, parsed); err != nil {
			var be *batchError
			if errors.As(err, &be) {
				return &LoadError{Path: path, Line: batchNos[be.index], Err: be.err}
			}
			return err
		}
		lines = append(lines, parsed...)
		batch = batch[:0]
		batchNos = batchNos[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		batch = append(batch, text)
		batchNos = append(batchNos, lineNo)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("scan error: %w", err)}
	}

	if len(lines) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no data rows")}
	}

	logger.Info("dataset loaded",
		"path", path,
		"lines", len(lines),
		"duration", time.Since(start),
	)

	return &Dataset{lines: lines}, nil
}

type batchError struct {
	index int
	err   error
}

func (e *batchError) Error() string {
	return e.err.Error()
}

// parseBatch parses one batch concurrently, writing each result to its own
// slot so input order survives the parallelism. The first failing row wins;
// rows are never skipped.
func parseBatch(ctx context.Context, batch []string, cols columnIndex, out []models.TransactionLine) error {
	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			parsed, err := parseLine(line, cols)
			if err != nil {
				return &batchError{index: i, err: err}
			}
			out[i] = parsed
			return nil
		})
	}

	return wg.Wait()
}

func parseLine(line string, cols columnIndex) (models.TransactionLine, error) {
	record := strings.Split(line, ",")
	maxIdx := cols.id
	for _, idx := range []int{cols.date, cols.timeOfDay, cols.qty, cols.price, cols.location, cols.product} {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if len(record) <= maxIdx {
		return models.TransactionLine{}, fmt.Errorf("expected at least %d columns, got %d", maxIdx+1, len(record))
	}

	id, err := strconv.Atoi(strings.TrimSpace(record[cols.id]))
	if err != nil {
		return models.TransactionLine{}, fmt.Errorf("transaction_id: %w", err)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(record[cols.date]))
	if err != nil {
		return models.TransactionLine{}, fmt.Errorf("transaction_date: %w", err)
	}

	timeOfDay, err := time.Parse(timeLayout, strings.TrimSpace(record[cols.timeOfDay]))
	if err != nil {
		return models.TransactionLine{}, fmt.Errorf("transaction_time: %w", err)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(record[cols.qty]))
	if err != nil {
		return models.TransactionLine{}, fmt.Errorf("transaction_qty: %w", err)
	}
	if qty <= 0 {
		return models.TransactionLine{}, fmt.Errorf("transaction_qty must be positive, got %d", qty)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[cols.price]), 64)
	if err != nil {
		return models.TransactionLine{}, fmt.Errorf("unit_price: %w", err)
	}
	if price < 0 {
		return models.TransactionLine{}, fmt.Errorf("unit_price must be non-negative, got %g", price)
	}

	return models.TransactionLine{
		TransactionID: id,
		StoreLocation: strings.TrimSpace(record[cols.location]),
		Date:          date,
		ProductDetail: strings.TrimSpace(record[cols.product]),
		Quantity:      qty,
		UnitPrice:     price,
		Revenue:       float64(qty) * price,
		Hour:          timeOfDay.Hour(),
		Weekday:       date.Weekday().String(),
		Month:         date.Format(monthLayout),
	}, nil
}
