/*
Package ranking sorts catalog batteries by a user-selected column.
*/
package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shanehull/batterydb/internal/pricing"
	"github.com/shanehull/batterydb/internal/types"
)

type Key string

const (
	KeyName              Key = "name"
	KeyChemistry         Key = "chemistry"
	KeyUsableCapacityKWh Key = "usable_capacity_kwh"
	KeyContinuousPowerKW Key = "continuous_power_kw"
	KeyBackupType        Key = "backup_type"
	KeyWarrantyYears     Key = "warranty_years"
	KeyPrice             Key = "price"
	KeyReleasedDate      Key = "released_date"
)

// Keys lists every sortable column in display order.
var Keys = []Key{
	KeyName,
	KeyChemistry,
	KeyUsableCapacityKWh,
	KeyContinuousPowerKW,
	KeyBackupType,
	KeyWarrantyYears,
	KeyPrice,
	KeyReleasedDate,
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultKey       = KeyUsableCapacityKWh
	DefaultDirection = Desc
)

var backupRank = map[types.BackupType]int{
	types.BackupNone:              0,
	types.BackupEssentialCircuits: 1,
	types.BackupWholeHome:         2,
}

// missingWarranty sorts unknown warranties below every real value.
const missingWarranty = -1.0

func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Keys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Sort returns a stably sorted copy of batteries. Desc negates the comparison
// instead of reversing the result, so equal rows keep their input order in
// both directions and the released_date nulls-last rule flips to nulls-first.
func Sort(batteries []types.Battery, key Key, dir Direction) []types.Battery {
	sorted := slices.Clone(batteries)

	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(language.English)

	slices.SortStableFunc(sorted, func(a, b types.Battery) int {
		diff := compare(col, key, a, b)
		if dir == Desc {
			return -diff
		}
		return diff
	})
	return sorted
}

func compare(col *collate.Collator, key Key, a, b types.Battery) int {
	switch key {
	case KeyName:
		return col.CompareString(displayName(a), displayName(b))
	case KeyChemistry:
		return strings.Compare(string(a.Chemistry), string(b.Chemistry))
	case KeyUsableCapacityKWh:
		return cmp.Compare(a.UsableCapacityKWh, b.UsableCapacityKWh)
	case KeyContinuousPowerKW:
		return cmp.Compare(a.ContinuousPowerKW, b.ContinuousPowerKW)
	case KeyBackupType:
		return cmp.Compare(backupRank[a.BackupType], backupRank[b.BackupType])
	case KeyWarrantyYears:
		return cmp.Compare(warranty(a), warranty(b))
	case KeyPrice:
		return cmp.Compare(priceAmount(a), priceAmount(b))
	case KeyReleasedDate:
		return compareReleased(a.ReleasedDate, b.ReleasedDate)
	}
	return 0
}

func displayName(b types.Battery) string {
	return b.BrandName + " " + b.Model
}

func warranty(b types.Battery) float64 {
	if b.WarrantyYears == nil {
		return missingWarranty
	}
	return *b.WarrantyYears
}

// priceAmount compares dollar and euro magnitudes directly, without conversion.
func priceAmount(b types.Battery) float64 {
	p, ok := pricing.Resolve(b)
	if !ok {
		return math.Inf(1)
	}
	return p.Amount
}

// compareReleased places missing dates after present ones.
func compareReleased(a, b *string) int {
	da, db := deref(a), deref(b)
	switch {
	case da == "" && db == "":
		return 0
	case da == "":
		return 1
	case db == "":
		return -1
	}
	return strings.Compare(da, db)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
