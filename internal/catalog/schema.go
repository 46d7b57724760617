package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const brandsTable = `
CREATE TABLE brands (
	slug          TEXT PRIMARY KEY NOT NULL,
	name          TEXT NOT NULL,
	country       TEXT,
	website_url   TEXT,
	logo_url      TEXT,
	description   TEXT
)`

const batteriesTable = `
CREATE TABLE batteries (
	slug                      TEXT PRIMARY KEY NOT NULL,
	brand_slug                TEXT NOT NULL REFERENCES brands(slug),
	model                     TEXT NOT NULL,
	manufacturer_sku          TEXT,
	status                    TEXT NOT NULL DEFAULT 'available'
	                            CHECK(status IN ('available', 'discontinued', 'upcoming')),
	released_date             TEXT,
	image_url                 TEXT,
	datasheet_url             TEXT,
	product_url               TEXT,

	usable_capacity_kwh       {{REAL}} NOT NULL,
	total_capacity_kwh        {{REAL}},
	continuous_power_kw       {{REAL}} NOT NULL,
	peak_power_kw             {{REAL}},
	max_charge_rate_kw        {{REAL}},

	chemistry                 TEXT NOT NULL CHECK(chemistry IN ('LFP', 'NMC', 'NCA', 'Other')),
	ac_coupled                INTEGER NOT NULL,
	backup_type               TEXT NOT NULL CHECK(backup_type IN ('none', 'essential_circuits', 'whole_home')),
	scalable                  INTEGER NOT NULL,

	roundtrip_efficiency_pct  {{REAL}},
	depth_of_discharge_pct    {{REAL}},
	warranty_years            {{REAL}},
	warranty_cycles           INTEGER,
	warranty_throughput_kwh   {{REAL}},

	weight_kg                 {{REAL}},
	indoor_rated              INTEGER NOT NULL,
	outdoor_rated             INTEGER NOT NULL,
	ip_rating                 TEXT,
	operating_temp_min_c      {{REAL}},
	operating_temp_max_c      {{REAL}},

	price_nl                  {{REAL}},
	price_fr                  {{REAL}},
	price_us                  {{REAL}},
	price_note                TEXT,
	available_nl              INTEGER NOT NULL DEFAULT 0,
	available_fr              INTEGER NOT NULL DEFAULT 0,
	available_us              INTEGER NOT NULL DEFAULT 0,

	notes                     TEXT,
	created_at                TEXT NOT NULL DEFAULT {{NOW}},
	updated_at                TEXT NOT NULL DEFAULT {{NOW}}
)`

func (s *Store) schemaStatements() []string {
	realType, now := "REAL", "(datetime('now'))"
	if s.dialect == dialectPostgres {
		realType = "DOUBLE PRECISION"
		now = "(to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS'))"
	}
	r := strings.NewReplacer("{{REAL}}", realType, "{{NOW}}", now)

	return []string{
		"DROP TABLE IF EXISTS batteries",
		"DROP TABLE IF EXISTS brands",
		brandsTable,
		r.Replace(batteriesTable),
	}
}

// recreateSchema drops both tables and creates them empty.
func (s *Store) recreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range s.schemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
