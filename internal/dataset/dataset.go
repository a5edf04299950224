// Package dataset defines the static data snapshots the lookups are built
// over and the JSON loaders that produce them. Every optional field in the
// source files may be absent; loaders never reject a record for gaps.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/oneshot2001/axisfinder/internal/logger"
)

// schemaConstraint is the dataset schema range this build understands.
// Bumped together with any breaking change to the JSON contracts below.
const schemaConstraint = ">= 1.0.0, < 2.0.0"

// CompetitorMapping is one competitor model cross-referenced to its Axis
// replacement, as curated in the crossref dataset.
type CompetitorMapping struct {
	CompetitorModel        string   `json:"competitor_model"`
	CompetitorManufacturer string   `json:"competitor_manufacturer"`
	AxisReplacement        string   `json:"axis_replacement"`
	Confidence             int      `json:"confidence"`
	CompetitorType         string   `json:"competitor_type,omitempty"`
	CompetitorResolution   string   `json:"competitor_resolution,omitempty"`
	Features               []string `json:"features,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

// LegacyMapping records a discontinued Axis model and its current
// replacement.
type LegacyMapping struct {
	LegacyModel      string `json:"legacy_model"`
	ReplacementModel string `json:"replacement_model"`
	Notes            string `json:"notes,omitempty"`
	DiscontinuedYear int    `json:"discontinued_year,omitempty"`
}

// Metadata describes a dataset file's provenance and schema version.
type Metadata struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at,omitempty"`
	Source      string `json:"source,omitempty"`
}

// CrossRef is the combined competitor + legacy dataset.
type CrossRef struct {
	Mappings       []CompetitorMapping `json:"mappings"`
	LegacyDatabase struct {
		Mappings []LegacyMapping `json:"mappings"`
	} `json:"axis_legacy_database"`
	Metadata Metadata `json:"metadata"`
}

// ProductSpec is one Axis catalog entry. Source data is incomplete, so
// almost everything is optional; enrichment fills gaps without ever
// overwriting a populated field.
type ProductSpec struct {
	ProductType   string `json:"product_type"`
	CameraSubtype string `json:"camera_subtype,omitempty"`
	Resolution    string `json:"resolution,omitempty"`
	MaxFPS        int    `json:"max_fps,omitempty"`
	Codecs        string `json:"codecs,omitempty"`
	Power         string `json:"power,omitempty"`
	Chipset       string `json:"chipset,omitempty"`
	Sensor        string `json:"sensor,omitempty"`
}

// SpecDatabase maps ModelKey to its catalog spec.
type SpecDatabase struct {
	Products map[string]ProductSpec `json:"products"`
	Metadata Metadata               `json:"metadata"`
}

// Accessory recommendation tiers, strongest first.
const (
	TierRecommended = "recommended"
	TierIncluded    = "included"
	TierCompatible  = "compatible"
)

// AccessoryEntry is one accessory compatible with a camera model.
type AccessoryEntry struct {
	Model              string `json:"model"`
	Type               string `json:"type"`
	MountPlacement     string `json:"mount_placement,omitempty"`
	Tier               string `json:"tier,omitempty"`
	RequiresAdditional bool   `json:"requires_additional,omitempty"`
	MSRPKey            string `json:"msrp_key,omitempty"`
}

// AccessorySet groups the accessories curated for one camera model.
type AccessorySet struct {
	ProductVariant string           `json:"productVariant,omitempty"`
	Accessories    []AccessoryEntry `json:"accessories"`
}

// AccessoryDatabase maps camera ModelKey to its accessory set.
type AccessoryDatabase struct {
	Compatibility map[string]AccessorySet `json:"compatibility"`
	Metadata      Metadata                `json:"metadata"`
}

// MSRPEntry is a list price with its catalog description.
type MSRPEntry struct {
	MSRP        float64 `json:"msrp"`
	Description string  `json:"description,omitempty"`
}

// MSRPDatabase maps ModelKey to price.
type MSRPDatabase map[string]MSRPEntry

// TierRank orders accessory recommendation tiers for sorting; higher is
// better. Unknown tiers rank below everything curated.
func TierRank(tier string) int {
	switch tier {
	case TierRecommended:
		return 3
	case TierIncluded:
		return 2
	case TierCompatible:
		return 1
	default:
		return 0
	}
}

// CheckSchemaVersion validates dataset metadata against the schema range
// this build supports. An empty version is tolerated for hand-maintained
// files and logged instead of rejected.
func CheckSchemaVersion(meta Metadata, name string) error {
	log := logger.GetLogger().WithComponent("dataset")
	if meta.Version == "" {
		log.Warn().Str("dataset", name).Msg("dataset has no schema version, skipping check")
		return nil
	}
	v, err := semver.NewVersion(meta.Version)
	if err != nil {
		return fmt.Errorf("dataset %s: invalid schema version %q: %w", name, meta.Version, err)
	}
	c, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("dataset %s: schema version %s outside supported range %s", name, meta.Version, schemaConstraint)
	}
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadStringMap reads a flat key/value JSON file (verified URL and alias
// tables). A missing file is an empty table, not an error: both tables
// are optional curation layers.
func LoadStringMap(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := loadJSON(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadCrossRef reads the combined competitor/legacy dataset.
func LoadCrossRef(path string) (*CrossRef, error) {
	var db CrossRef
	if err := loadJSON(path, &db); err != nil {
		return nil, err
	}
	if err := CheckSchemaVersion(db.Metadata, "crossref"); err != nil {
		return nil, err
	}
	logger.GetLogger().WithComponent("dataset").Debug().
		Int("mappings", len(db.Mappings)).
		Int("legacy", len(db.LegacyDatabase.Mappings)).
		Msg("loaded crossref dataset")
	return &db, nil
}

// LoadSpecs reads the product spec dataset.
func LoadSpecs(path string) (*SpecDatabase, error) {
	var db SpecDatabase
	if err := loadJSON(path, &db); err != nil {
		return nil, err
	}
	if err := CheckSchemaVersion(db.Metadata, "specs"); err != nil {
		return nil, err
	}
	return &db, nil
}

// LoadAccessories reads the accessory compatibility dataset.
func LoadAccessories(path string) (*AccessoryDatabase, error) {
	var db AccessoryDatabase
	if err := loadJSON(path, &db); err != nil {
		return nil, err
	}
	if err := CheckSchemaVersion(db.Metadata, "accessories"); err != nil {
		return nil, err
	}
	return &db, nil
}

// LoadMSRP reads the list-price dataset.
func LoadMSRP(path string) (MSRPDatabase, error) {
	var db MSRPDatabase
	if err := loadJSON(path, &db); err != nil {
		return nil, err
	}
	return db, nil
}
