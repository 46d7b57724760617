package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type column struct {
	name     string
	required bool
	convert  func(string) (any, error)
}

// CSV booleans are the literal strings "true"/"false"; everything but "true" is 0.
func boolCol(v string) (any, error) {
	if v == "true" {
		return 1, nil
	}
	return 0, nil
}

func numCol(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", v)
	}
	return f, nil
}

func intCol(v string) (any, error) {
	n, err := numCol(v)
	if err != nil || n == nil {
		return n, err
	}
	return int64(n.(float64)), nil
}

func strCol(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	return v, nil
}

func rawCol(v string) (any, error) {
	return v, nil
}

var brandColumns = []column{
	{"slug", true, rawCol},
	{"name", true, rawCol},
	{"country", false, strCol},
	{"website_url", false, strCol},
	{"logo_url", false, strCol},
	{"description", false, strCol},
}

var batteryColumns = []column{
	{"slug", true, rawCol},
	{"brand_slug", true, rawCol},
	{"model", true, rawCol},
	{"manufacturer_sku", false, strCol},
	{"status", true, rawCol},
	{"released_date", false, strCol},
	{"image_url", false, strCol},
	{"datasheet_url", false, strCol},
	{"product_url", false, strCol},
	{"usable_capacity_kwh", true, numCol},
	{"total_capacity_kwh", false, numCol},
	{"continuous_power_kw", true, numCol},
	{"peak_power_kw", false, numCol},
	{"max_charge_rate_kw", false, numCol},
	{"chemistry", true, rawCol},
	{"ac_coupled", false, boolCol},
	{"backup_type", true, rawCol},
	{"scalable", false, boolCol},
	{"roundtrip_efficiency_pct", false, numCol},
	{"depth_of_discharge_pct", false, numCol},
	{"warranty_years", false, numCol},
	{"warranty_cycles", false, intCol},
	{"warranty_throughput_kwh", false, numCol},
	{"weight_kg", false, numCol},
	{"indoor_rated", false, boolCol},
	{"outdoor_rated", false, boolCol},
	{"ip_rating", false, strCol},
	{"operating_temp_min_c", false, numCol},
	{"operating_temp_max_c", false, numCol},
	{"price_nl", false, numCol},
	{"price_fr", false, numCol},
	{"price_us", false, numCol},
	{"price_note", false, strCol},
	{"available_nl", false, boolCol},
	{"available_fr", false, boolCol},
	{"available_us", false, boolCol},
	{"notes", false, strCol},
}

type SeedResult struct {
	Brands    int
	Batteries int
}

// Seed drops and recreates both tables, then inserts every CSV row. Seed files
// are curated input: a battery that references an unknown brand fails the
// foreign key and aborts the run, leaving the tables partially filled.
func (s *Store) Seed(ctx context.Context, brandsPath, batteriesPath string, logger *zap.Logger) (SeedResult, error) {
	var res SeedResult

	brands, err := readCSV(brandsPath, brandColumns)
	if err != nil {
		return res, err
	}
	batteries, err := readCSV(batteriesPath, batteryColumns)
	if err != nil {
		return res, err
	}

	err = s.withDB(ctx, func(db *sql.DB) error {
		db.SetMaxOpenConns(1)

		if err := s.recreateSchema(ctx, db); err != nil {
			return err
		}

		n, err := s.insertRows(ctx, db, "brands", brandColumns, brands)
		res.Brands = n
		if err != nil {
			return err
		}
		logger.Info("Inserted brands", zap.Int("count", n))

		n, err = s.insertRows(ctx, db, "batteries", batteryColumns, batteries)
		res.Batteries = n
		if err != nil {
			return err
		}
		logger.Info("Inserted batteries", zap.Int("count", n))
		return nil
	})
	return res, err
}

func (s *Store) insertRows(ctx context.Context, db *sql.DB, table string, cols []column, rows [][]any) (int, error) {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		marks[i] = "?"
	}
	query := s.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", ")))

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return i, fmt.Errorf("failed to insert %s row %d (%v): %w", table, i+1, args[0], err)
		}
	}
	return len(rows), nil
}

func readCSV(path string, cols []column) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	rows, err := parseCSV(f, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// parseCSV maps each record onto cols by header name and coerces the values.
// Blank lines are skipped and unknown columns are ignored.
func parseCSV(r io.Reader, cols []column) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range cols {
		if _, ok := index[c.name]; c.required && !ok {
			return nil, fmt.Errorf("missing required column %q", c.name)
		}
	}

	var rows [][]any
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		args := make([]any, len(cols))
		for i, c := range cols {
			v := ""
			if j, ok := index[c.name]; ok && j < len(record) {
				v = record[j]
			}
			if args[i], err = c.convert(v); err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, c.name, err)
			}
		}
		rows = append(rows, args)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
