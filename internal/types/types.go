package types

import (
	"encoding/json"
	"strings"
)

type Status string

const (
	StatusAvailable    Status = "available"
	StatusDiscontinued Status = "discontinued"
	StatusUpcoming     Status = "upcoming"
)

type Chemistry string

const (
	ChemistryLFP   Chemistry = "LFP"
	ChemistryNMC   Chemistry = "NMC"
	ChemistryNCA   Chemistry = "NCA"
	ChemistryOther Chemistry = "Other"
)

type BackupType string

const (
	BackupNone              BackupType = "none"
	BackupEssentialCircuits BackupType = "essential_circuits"
	BackupWholeHome         BackupType = "whole_home"
)

type Brand struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Country     *string `json:"country"`
	WebsiteURL  *string `json:"website_url"`
	LogoURL     *string `json:"logo_url"`
	Description *string `json:"description"`
}

// Battery is one catalog row joined with its brand name.
type Battery struct {
	Slug            string  `json:"slug"`
	BrandSlug       string  `json:"brand_slug"`
	BrandName       string  `json:"brand_name"`
	Model           string  `json:"model"`
	ManufacturerSKU *string `json:"manufacturer_sku"`
	Status          Status  `json:"status"`
	ReleasedDate    *string `json:"released_date"`
	ImageURL        *string `json:"image_url"`
	DatasheetURL    *string `json:"datasheet_url"`
	ProductURL      *string `json:"product_url"`

	UsableCapacityKWh float64  `json:"usable_capacity_kwh"`
	TotalCapacityKWh  *float64 `json:"total_capacity_kwh"`
	ContinuousPowerKW float64  `json:"continuous_power_kw"`
	PeakPowerKW       *float64 `json:"peak_power_kw"`
	MaxChargeRateKW   *float64 `json:"max_charge_rate_kw"`

	Chemistry  Chemistry  `json:"chemistry"`
	ACCoupled  bool       `json:"ac_coupled"`
	BackupType BackupType `json:"backup_type"`
	Scalable   bool       `json:"scalable"`

	RoundtripEfficiencyPct *float64 `json:"roundtrip_efficiency_pct"`
	DepthOfDischargePct    *float64 `json:"depth_of_discharge_pct"`
	WarrantyYears          *float64 `json:"warranty_years"`
	WarrantyCycles         *int64   `json:"warranty_cycles"`
	WarrantyThroughputKWh  *float64 `json:"warranty_throughput_kwh"`

	WeightKG          *float64 `json:"weight_kg"`
	IndoorRated       bool     `json:"indoor_rated"`
	OutdoorRated      bool     `json:"outdoor_rated"`
	IPRating          *string  `json:"ip_rating"`
	OperatingTempMinC *float64 `json:"operating_temp_min_c"`
	OperatingTempMaxC *float64 `json:"operating_temp_max_c"`

	PriceNL     *float64 `json:"price_nl"`
	PriceFR     *float64 `json:"price_fr"`
	PriceUS     *float64 `json:"price_us"`
	PriceNote   *string  `json:"price_note"`
	AvailableNL bool     `json:"available_nl"`
	AvailableFR bool     `json:"available_fr"`
	AvailableUS bool     `json:"available_us"`

	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// TrackedBattery is the identity triple the dedup oracle compares against.
type TrackedBattery struct {
	BrandSlug string
	Model     string
	Slug      string
}

// Article is a keyword-relevant feed item published after the cutoff.
type Article struct {
	Title       string
	Description string
	Link        string
	PubDate     string
	Source      string
}

// Specs accepts either a JSON array of strings or a single string, since
// the oracle is not consistent about which one it returns.
type Specs []string

func (s *Specs) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	single = strings.TrimSpace(single)
	if single == "" {
		*s = nil
		return nil
	}
	*s = Specs{single}
	return nil
}

type CandidateAnnouncement struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	KeySpecs   Specs  `json:"key_specs"`
	ArticleURL string `json:"article_url"`
	PubDate    string `json:"pub_date"`
}

type ConfirmedNewBattery struct {
	CandidateAnnouncement
	ReasonNew string `json:"reason_new"`
}
