package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shanehull/batterydb/internal/types"
)

const batteryColumnsSQL = `
	b.slug, b.brand_slug, br.name, b.model, b.manufacturer_sku, b.status, b.released_date,
	b.image_url, b.datasheet_url, b.product_url,
	b.usable_capacity_kwh, b.total_capacity_kwh, b.continuous_power_kw, b.peak_power_kw, b.max_charge_rate_kw,
	b.chemistry, b.ac_coupled, b.backup_type, b.scalable,
	b.roundtrip_efficiency_pct, b.depth_of_discharge_pct, b.warranty_years, b.warranty_cycles, b.warranty_throughput_kwh,
	b.weight_kg, b.indoor_rated, b.outdoor_rated, b.ip_rating, b.operating_temp_min_c, b.operating_temp_max_c,
	b.price_nl, b.price_fr, b.price_us, b.price_note, b.available_nl, b.available_fr, b.available_us,
	b.notes, b.created_at, b.updated_at`

const batteriesFrom = `
FROM batteries b
JOIN brands br ON br.slug = b.brand_slug`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBattery(row rowScanner) (types.Battery, error) {
	var b types.Battery
	err := row.Scan(
		&b.Slug, &b.BrandSlug, &b.BrandName, &b.Model, &b.ManufacturerSKU, &b.Status, &b.ReleasedDate,
		&b.ImageURL, &b.DatasheetURL, &b.ProductURL,
		&b.UsableCapacityKWh, &b.TotalCapacityKWh, &b.ContinuousPowerKW, &b.PeakPowerKW, &b.MaxChargeRateKW,
		&b.Chemistry, &b.ACCoupled, &b.BackupType, &b.Scalable,
		&b.RoundtripEfficiencyPct, &b.DepthOfDischargePct, &b.WarrantyYears, &b.WarrantyCycles, &b.WarrantyThroughputKWh,
		&b.WeightKG, &b.IndoorRated, &b.OutdoorRated, &b.IPRating, &b.OperatingTempMinC, &b.OperatingTempMaxC,
		&b.PriceNL, &b.PriceFR, &b.PriceUS, &b.PriceNote, &b.AvailableNL, &b.AvailableFR, &b.AvailableUS,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func scanBrand(row rowScanner) (types.Brand, error) {
	var b types.Brand
	err := row.Scan(&b.Slug, &b.Name, &b.Country, &b.WebsiteURL, &b.LogoURL, &b.Description)
	return b, err
}

func (s *Store) queryBatteries(ctx context.Context, where, order string, args ...any) ([]types.Battery, error) {
	query := s.rebind("SELECT" + batteryColumnsSQL + batteriesFrom + " " + where + " " + order)

	var out []types.Battery
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query batteries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanBattery(rows)
			if err != nil {
				return fmt.Errorf("failed to scan battery: %w", err)
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	return out, err
}

// AllBatteries returns every battery, largest usable capacity first.
func (s *Store) AllBatteries(ctx context.Context) ([]types.Battery, error) {
	return s.queryBatteries(ctx, "", "ORDER BY b.usable_capacity_kwh DESC")
}

// BatteryBySlug returns ErrNotFound when no battery has the slug.
func (s *Store) BatteryBySlug(ctx context.Context, slug string) (types.Battery, error) {
	found, err := s.queryBatteries(ctx, "WHERE b.slug = ?", "", slug)
	if err != nil {
		return types.Battery{}, err
	}
	if len(found) == 0 {
		return types.Battery{}, fmt.Errorf("battery %q: %w", slug, ErrNotFound)
	}
	return found[0], nil
}

// BatteriesByBrand returns the brand's batteries, most recently released first.
func (s *Store) BatteriesByBrand(ctx context.Context, brandSlug string) ([]types.Battery, error) {
	return s.queryBatteries(ctx, "WHERE b.brand_slug = ?", "ORDER BY b.released_date DESC NULLS LAST", brandSlug)
}

func (s *Store) AllBrands(ctx context.Context) ([]types.Brand, error) {
	var out []types.Brand
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT slug, name, country, website_url, logo_url, description FROM brands ORDER BY name")
		if err != nil {
			return fmt.Errorf("failed to query brands: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanBrand(rows)
			if err != nil {
				return fmt.Errorf("failed to scan brand: %w", err)
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Store) BrandBySlug(ctx context.Context, slug string) (types.Brand, error) {
	var brand types.Brand
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, s.rebind(
			"SELECT slug, name, country, website_url, logo_url, description FROM brands WHERE slug = ?"), slug)

		var err error
		brand, err = scanBrand(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("brand %q: %w", slug, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to query brand: %w", err)
		}
		return nil
	})
	return brand, err
}

// TrackedBatteries lists the identity of every catalog entry for dedup.
func (s *Store) TrackedBatteries(ctx context.Context) ([]types.TrackedBattery, error) {
	var out []types.TrackedBattery
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT brand_slug, model, slug FROM batteries ORDER BY brand_slug, model")
		if err != nil {
			return fmt.Errorf("failed to query tracked batteries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var t types.TrackedBattery
			if err := rows.Scan(&t.BrandSlug, &t.Model, &t.Slug); err != nil {
				return fmt.Errorf("failed to scan tracked battery: %w", err)
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}
