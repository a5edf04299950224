// Package stats summarizes dataset coverage so maintainers can see where
// the cross-reference data is thin.
package stats

import (
	"sort"

	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
	"github.com/oneshot2001/axisfinder/internal/search"
)

// ManufacturerStats represents mapping coverage for one manufacturer
type ManufacturerStats struct {
	Manufacturer  string  `json:"manufacturer"`
	Mappings      int     `json:"mappings"`
	AvgConfidence float64 `json:"avg_confidence"`
	NDAACategory  string  `json:"ndaa_category"`
}

// ConfidenceBucket is one bar of the mapping-confidence histogram
type ConfidenceBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CoverageStats reports how much of the mapped catalog each auxiliary
// dataset covers.
type CoverageStats struct {
	ReplacementModels int     `json:"replacement_models"`
	SpecCoverage      float64 `json:"spec_coverage"`
	AccessoryCoverage float64 `json:"accessory_coverage"`
	MSRPCoverage      float64 `json:"msrp_coverage"`
}

// DatasetStats is the full stats report
type DatasetStats struct {
	TotalMappings     int                 `json:"total_mappings"`
	LegacyMappings    int                 `json:"legacy_mappings"`
	Manufacturers     []ManufacturerStats `json:"manufacturers"`
	ConfidenceBuckets []ConfidenceBucket  `json:"confidence_buckets"`
	Coverage          CoverageStats       `json:"coverage"`
}

// Collect builds a stats report over the loaded snapshots. Auxiliary
// datasets may be nil when not configured; their coverage reads zero.
func Collect(db *dataset.CrossRef, specs *dataset.SpecDatabase, accessories *dataset.AccessoryDatabase, msrp dataset.MSRPDatabase) *DatasetStats {
	s := &DatasetStats{
		TotalMappings:  len(db.Mappings),
		LegacyMappings: len(db.LegacyDatabase.Mappings),
	}

	type agg struct {
		count int
		sum   int
	}
	byManufacturer := make(map[string]*agg)
	replacements := make(map[string]bool)
	buckets := map[string]int{"90-100": 0, "70-89": 0, "50-69": 0, "<50": 0}

	for _, m := range db.Mappings {
		a := byManufacturer[m.CompetitorManufacturer]
		if a == nil {
			a = &agg{}
			byManufacturer[m.CompetitorManufacturer] = a
		}
		a.count++
		a.sum += m.Confidence
		replacements[modelkey.Normalize(m.AxisReplacement)] = true

		switch {
		case m.Confidence >= 90:
			buckets["90-100"]++
		case m.Confidence >= 70:
			buckets["70-89"]++
		case m.Confidence >= 50:
			buckets["50-69"]++
		default:
			buckets["<50"]++
		}
	}

	for name, a := range byManufacturer {
		s.Manufacturers = append(s.Manufacturers, ManufacturerStats{
			Manufacturer:  name,
			Mappings:      a.count,
			AvgConfidence: float64(a.sum) / float64(a.count),
			NDAACategory:  search.NDAACategory(name),
		})
	}
	sort.Slice(s.Manufacturers, func(i, j int) bool {
		if s.Manufacturers[i].Mappings != s.Manufacturers[j].Mappings {
			return s.Manufacturers[i].Mappings > s.Manufacturers[j].Mappings
		}
		return s.Manufacturers[i].Manufacturer < s.Manufacturers[j].Manufacturer
	})

	for _, label := range []string{"90-100", "70-89", "50-69", "<50"} {
		s.ConfidenceBuckets = append(s.ConfidenceBuckets, ConfidenceBucket{Label: label, Count: buckets[label]})
	}

	s.Coverage = coverage(replacements, specs, accessories, msrp)
	return s
}

func coverage(replacements map[string]bool, specs *dataset.SpecDatabase, accessories *dataset.AccessoryDatabase, msrp dataset.MSRPDatabase) CoverageStats {
	c := CoverageStats{ReplacementModels: len(replacements)}
	if len(replacements) == 0 {
		return c
	}

	specKeys := make(map[string]bool)
	if specs != nil {
		for k := range specs.Products {
			specKeys[modelkey.Normalize(k)] = true
		}
	}
	accKeys := make(map[string]bool)
	if accessories != nil {
		for k := range accessories.Compatibility {
			accKeys[modelkey.Normalize(k)] = true
		}
	}
	msrpKeys := make(map[string]bool)
	for k := range msrp {
		msrpKeys[modelkey.Normalize(k)] = true
	}

	var specHits, accHits, msrpHits int
	for r := range replacements {
		base := modelkey.BaseModel(r)
		if specKeys[r] || specKeys[base] {
			specHits++
		}
		if accKeys[r] || accKeys[base] {
			accHits++
		}
		if msrpKeys[r] || msrpKeys[base] {
			msrpHits++
		}
	}

	total := float64(len(replacements))
	c.SpecCoverage = float64(specHits) / total
	c.AccessoryCoverage = float64(accHits) / total
	c.MSRPCoverage = float64(msrpHits) / total
	return c
}
