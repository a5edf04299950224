package resolve

import (
	"fmt"
	"sort"

	"github.com/oneshot2001/axisfinder/internal/dataset"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// AccessoryResult is an accessory set plus the cascade rung that produced
// it. Accessories is empty when Confidence is "none".
type AccessoryResult struct {
	Accessories []dataset.AccessoryEntry `json:"accessories"`
	MatchedKey  string                   `json:"matched_key,omitempty"`
	Confidence  string                   `json:"confidence"`
	Warning     string                   `json:"warning,omitempty"`
}

// AccessoryLookup answers accessory compatibility queries for a camera
// model.
type AccessoryLookup interface {
	Compatible(camera string) []dataset.AccessoryEntry
	ByType(camera, accessoryType string) []dataset.AccessoryEntry
	Recommended(camera string) []dataset.AccessoryEntry
	MountsByPlacement(camera, placement string) []dataset.AccessoryEntry
	ResolveMountPair(camera, placement string) *dataset.AccessoryEntry
	HasCompatibility(camera string) bool
	ResolveWithConfidence(camera string) AccessoryResult
}

// CompatAccessoryLookup wraps the accessory compatibility dataset behind
// the shared cascade.
type CompatAccessoryLookup struct {
	compat map[string]dataset.AccessorySet
	keys   []string
	log    *logger.Logger
}

// NewCompatAccessoryLookup indexes an accessory snapshot by normalized
// camera ModelKey.
func NewCompatAccessoryLookup(db *dataset.AccessoryDatabase) *CompatAccessoryLookup {
	compat := make(map[string]dataset.AccessorySet, len(db.Compatibility))
	for k, v := range db.Compatibility {
		compat[modelkey.Normalize(k)] = v
	}
	return &CompatAccessoryLookup{
		compat: compat,
		keys:   sortedKeys(compat),
		log:    logger.GetLogger().Resolver(),
	}
}

// ResolveWithConfidence cascades exact key, base model, then the series
// sibling with the smallest key, flagging a substitution with a warning
// naming the model whose accessory list is actually shown.
func (a *CompatAccessoryLookup) ResolveWithConfidence(camera string) AccessoryResult {
	key := modelkey.Normalize(camera)

	if set, ok := a.compat[key]; ok {
		return AccessoryResult{Accessories: set.Accessories, MatchedKey: key, Confidence: ConfidenceExact}
	}

	if base := modelkey.BaseModel(key); base != key {
		if set, ok := a.compat[base]; ok {
			return AccessoryResult{Accessories: set.Accessories, MatchedKey: base, Confidence: ConfidenceBaseModel}
		}
	}

	if sibling := seriesFallbackKey(key, a.keys); sibling != "" {
		set := a.compat[sibling]
		a.log.Debug().Str("camera", key).Str("sibling", sibling).Msg("accessory series fallback")
		return AccessoryResult{
			Accessories: set.Accessories,
			MatchedKey:  sibling,
			Confidence:  ConfidenceSeriesFallback,
			Warning:     fmt.Sprintf("no accessory data for %s; showing compatibility for series sibling %s, verify before use", key, sibling),
		}
	}

	return AccessoryResult{Confidence: ConfidenceNone}
}

// Compatible returns every accessory for the camera, through the cascade.
func (a *CompatAccessoryLookup) Compatible(camera string) []dataset.AccessoryEntry {
	return a.ResolveWithConfidence(camera).Accessories
}

// ByType filters compatible accessories by accessory type (mount, power,
// cables, ...).
func (a *CompatAccessoryLookup) ByType(camera, accessoryType string) []dataset.AccessoryEntry {
	var out []dataset.AccessoryEntry
	for _, acc := range a.Compatible(camera) {
		if acc.Type == accessoryType {
			out = append(out, acc)
		}
	}
	return out
}

// Recommended returns only accessories curated at the recommended tier.
func (a *CompatAccessoryLookup) Recommended(camera string) []dataset.AccessoryEntry {
	var out []dataset.AccessoryEntry
	for _, acc := range a.Compatible(camera) {
		if acc.Tier == dataset.TierRecommended {
			out = append(out, acc)
		}
	}
	return out
}

// MountsByPlacement returns mount accessories for one placement (pole,
// wall, corner, ...).
func (a *CompatAccessoryLookup) MountsByPlacement(camera, placement string) []dataset.AccessoryEntry {
	var out []dataset.AccessoryEntry
	for _, acc := range a.ByType(camera, "mount") {
		if acc.MountPlacement == placement {
			out = append(out, acc)
		}
	}
	return out
}

// ResolveMountPair picks the best mount for a camera and placement with a
// fixed two-key sort: recommendation tier first, then mounts that work
// without an additional accessory. No weighted scoring, so the choice is
// always explainable as "highest tier, then simplest".
func (a *CompatAccessoryLookup) ResolveMountPair(camera, placement string) *dataset.AccessoryEntry {
	mounts := a.MountsByPlacement(camera, placement)
	if len(mounts) == 0 {
		return nil
	}
	sort.SliceStable(mounts, func(i, j int) bool {
		ri, rj := dataset.TierRank(mounts[i].Tier), dataset.TierRank(mounts[j].Tier)
		if ri != rj {
			return ri > rj
		}
		if mounts[i].RequiresAdditional != mounts[j].RequiresAdditional {
			return !mounts[i].RequiresAdditional
		}
		return mounts[i].Model < mounts[j].Model
	})
	return &mounts[0]
}

// HasCompatibility reports whether any rung of the cascade has accessory
// data for the camera.
func (a *CompatAccessoryLookup) HasCompatibility(camera string) bool {
	return a.ResolveWithConfidence(camera).Confidence != ConfidenceNone
}
