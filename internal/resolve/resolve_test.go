package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneshot2001/axisfinder/internal/dataset"
)

func testSpecLookup() *ProductSpecLookup {
	return NewProductSpecLookup(&dataset.SpecDatabase{
		Products: map[string]dataset.ProductSpec{
			"P3265-LVE": {ProductType: "camera", CameraSubtype: "dome", Resolution: "1920x1080", MaxFPS: 60},
			"P3285-LVE": {ProductType: "camera", CameraSubtype: "dome", Resolution: "3840x2160"},
			"Q3538-LVE": {ProductType: "camera", Resolution: "3840x2160"},
		},
	})
}

func TestSpecLookup_ExactMatch(t *testing.T) {
	res := testSpecLookup().Lookup("AXIS P3265-LVE")

	assert.Equal(t, ConfidenceExact, res.Confidence)
	assert.Equal(t, "P3265-LVE", res.MatchedKey)
	require.NotNil(t, res.Spec)
	assert.Equal(t, "1920x1080", res.Spec.Resolution)
	assert.Empty(t, res.Warning)
}

func TestSpecLookup_BaseModelBeforeSeries(t *testing.T) {
	// P3265-LVE-24V strips to P3265-LVE; the cascade must take the base
	// rung even though series siblings also exist.
	res := testSpecLookup().Lookup("P3265-LVE-24V")

	assert.Equal(t, ConfidenceBaseModel, res.Confidence)
	assert.Equal(t, "P3265-LVE", res.MatchedKey)
	assert.Empty(t, res.Warning)
}

func TestSpecLookup_SeriesFallbackWarns(t *testing.T) {
	// P3288-LVE has no entry and no base entry, but shares the P32 series
	// prefix. The smallest sibling key wins, every time.
	res := testSpecLookup().Lookup("P3288-LVE")

	assert.Equal(t, ConfidenceSeriesFallback, res.Confidence)
	assert.Equal(t, "P3265-LVE", res.MatchedKey)
	require.NotNil(t, res.Spec)
	assert.Contains(t, res.Warning, "P3288-LVE")
	assert.Contains(t, res.Warning, "P3265-LVE")
}

func TestSpecLookup_SeriesFallbackDeterministic(t *testing.T) {
	lookup := testSpecLookup()
	first := lookup.Lookup("P3288-LVE")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.MatchedKey, lookup.Lookup("P3288-LVE").MatchedKey)
	}
}

func TestSpecLookup_NoMatch(t *testing.T) {
	res := testSpecLookup().Lookup("M1065-L")

	assert.Equal(t, ConfidenceNone, res.Confidence)
	assert.Nil(t, res.Spec)
	assert.Empty(t, res.MatchedKey)
}

func testAccessoryLookup() *CompatAccessoryLookup {
	return NewCompatAccessoryLookup(&dataset.AccessoryDatabase{
		Compatibility: map[string]dataset.AccessorySet{
			"P3265-LVE": {
				Accessories: []dataset.AccessoryEntry{
					{Model: "T91B47", Type: "mount", MountPlacement: "pole", Tier: dataset.TierRecommended, RequiresAdditional: true},
					{Model: "T91A47", Type: "mount", MountPlacement: "pole", Tier: dataset.TierCompatible},
					{Model: "T94B01", Type: "mount", MountPlacement: "wall", Tier: dataset.TierRecommended},
					{Model: "T8134", Type: "power", Tier: dataset.TierIncluded},
				},
			},
			"Q6135-LE": {
				Accessories: []dataset.AccessoryEntry{
					{Model: "T91G61", Type: "mount", MountPlacement: "wall", Tier: dataset.TierCompatible},
				},
			},
		},
	})
}

func TestAccessoryLookup_ByTypeAndPlacement(t *testing.T) {
	a := testAccessoryLookup()

	assert.Len(t, a.Compatible("P3265-LVE"), 4)
	assert.Len(t, a.ByType("P3265-LVE", "mount"), 3)
	assert.Len(t, a.MountsByPlacement("P3265-LVE", "pole"), 2)
	require.Len(t, a.Recommended("P3265-LVE"), 2)
	assert.True(t, a.HasCompatibility("P3265-LVE"))
	assert.False(t, a.HasCompatibility("M1065-L"))
}

func TestResolveMountPair_TierBeatsSimplicity(t *testing.T) {
	a := testAccessoryLookup()

	// The recommended mount wins even though it needs an extra part and
	// the compatible one does not.
	mount := a.ResolveMountPair("P3265-LVE", "pole")
	require.NotNil(t, mount)
	assert.Equal(t, "T91B47", mount.Model)
	assert.True(t, mount.RequiresAdditional)
}

func TestResolveMountPair_NoMountsForPlacement(t *testing.T) {
	a := testAccessoryLookup()

	assert.Nil(t, a.ResolveMountPair("P3265-LVE", "corner"))
	assert.Nil(t, a.ResolveMountPair("UNKNOWN-MODEL", "pole"))
}

func TestAccessoryLookup_BaseModelCascade(t *testing.T) {
	a := testAccessoryLookup()

	res := a.ResolveWithConfidence("P3265-LVE-EUR")
	assert.Equal(t, ConfidenceBaseModel, res.Confidence)
	assert.Equal(t, "P3265-LVE", res.MatchedKey)
	assert.Len(t, res.Accessories, 4)
}

func TestAccessoryLookup_SeriesFallbackWarns(t *testing.T) {
	a := testAccessoryLookup()

	res := a.ResolveWithConfidence("Q6138-E")
	assert.Equal(t, ConfidenceSeriesFallback, res.Confidence)
	assert.Equal(t, "Q6135-LE", res.MatchedKey)
	assert.Contains(t, res.Warning, "Q6135-LE")
}

func TestPriceLookup_Cascade(t *testing.T) {
	p := NewPriceLookup(dataset.MSRPDatabase{
		"P3265-LVE": {MSRP: 1099.00, Description: "Fixed dome"},
		"Q3538-LVE": {MSRP: 2149.00},
	})

	exact := p.Lookup("axis p3265-lve")
	assert.Equal(t, ConfidenceExact, exact.Confidence)
	require.NotNil(t, exact.Entry)
	assert.InDelta(t, 1099.00, exact.Entry.MSRP, 0.001)

	base := p.Lookup("P3265-LVE-24V")
	assert.Equal(t, ConfidenceBaseModel, base.Confidence)
	assert.Equal(t, "P3265-LVE", base.MatchedKey)
}

func TestPriceLookup_NoSeriesFallback(t *testing.T) {
	p := NewPriceLookup(dataset.MSRPDatabase{
		"P3265-LVE": {MSRP: 1099.00},
	})

	// P3288-LVE shares the series but prices never substitute siblings.
	res := p.Lookup("P3288-LVE")
	assert.Equal(t, ConfidenceNone, res.Confidence)
	assert.Nil(t, res.Entry)
}

func testURLResolver() *ProductURLResolver {
	return NewProductURLResolver(
		map[string]string{
			"P3265-LVE": "https://www.axis.com/products/axis-p3265-lve",
		},
		map[string]string{
			"P3265LVE": "P3265-LVE",
			"M3086-V":  "M3085-V",
		},
		map[string]bool{
			"M3024-LVE": true,
		},
	)
}

func TestURLResolve_VerifiedExact(t *testing.T) {
	res := testURLResolver().Resolve("AXIS P3265-LVE")

	assert.Equal(t, URLVerified, res.Confidence)
	assert.Equal(t, "https://www.axis.com/products/axis-p3265-lve", res.URL)
	assert.False(t, res.IsDiscontinued)
}

func TestURLResolve_VerifiedViaBaseModel(t *testing.T) {
	res := testURLResolver().Resolve("P3265-LVE-60HZ")

	assert.Equal(t, URLVerified, res.Confidence)
	assert.Equal(t, "https://www.axis.com/products/axis-p3265-lve", res.URL)
}

func TestURLResolve_AliasRedirect(t *testing.T) {
	r := testURLResolver()

	// Alias to a verified key resolves to that key's curated URL.
	res := r.Resolve("P3265LVE")
	assert.Equal(t, URLAlias, res.Confidence)
	assert.Equal(t, "https://www.axis.com/products/axis-p3265-lve", res.URL)

	// Alias to an unverified key falls back to a generated URL but keeps
	// the alias confidence.
	res = r.Resolve("M3086-V")
	assert.Equal(t, URLAlias, res.Confidence)
	assert.Equal(t, "https://www.axis.com/products/axis-m3085-v", res.URL)
}

func TestURLResolve_DiscontinuedSearchFallback(t *testing.T) {
	res := testURLResolver().Resolve("M3024-LVE")

	assert.Equal(t, URLSearchFallback, res.Confidence)
	assert.True(t, res.IsDiscontinued)
	assert.Contains(t, res.URL, "axis.com/search?q=")
}

func TestURLResolve_GeneratedLastResort(t *testing.T) {
	res := testURLResolver().Resolve("Q1656-DLE")

	assert.Equal(t, URLGenerated, res.Confidence)
	assert.Equal(t, "https://www.axis.com/products/axis-q1656-dle", res.URL)
	assert.False(t, res.IsDiscontinued)
}

func TestSeriesFallbackKey(t *testing.T) {
	keys := []string{"P3265-LVE", "P3268-LV", "Q3538-LVE"}

	assert.Equal(t, "P3265-LVE", seriesFallbackKey("P3299-X", keys))
	assert.Equal(t, "Q3538-LVE", seriesFallbackKey("Q3536-LVE", keys))
	assert.Empty(t, seriesFallbackKey("12345", keys))
	assert.Empty(t, seriesFallbackKey("M1065-L", keys))
}
