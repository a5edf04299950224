package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneshot2001/axisfinder/internal/dataset"
)

func statsFixture() *dataset.CrossRef {
	db := &dataset.CrossRef{
		Mappings: []dataset.CompetitorMapping{
			{CompetitorModel: "DS-1", CompetitorManufacturer: "Hikvision", AxisReplacement: "P3265-LVE", Confidence: 92},
			{CompetitorModel: "DS-2", CompetitorManufacturer: "Hikvision", AxisReplacement: "P1465-LE", Confidence: 74},
			{CompetitorModel: "IPC-1", CompetitorManufacturer: "Dahua", AxisReplacement: "P3265-LVE", Confidence: 55},
			{CompetitorModel: "QNV-1", CompetitorManufacturer: "Hanwha", AxisReplacement: "Q3538-LVE", Confidence: 40},
		},
	}
	db.LegacyDatabase.Mappings = []dataset.LegacyMapping{
		{LegacyModel: "M3024-LVE", ReplacementModel: "M3085-V"},
	}
	return db
}

func TestCollect(t *testing.T) {
	specs := &dataset.SpecDatabase{Products: map[string]dataset.ProductSpec{
		"P3265-LVE": {ProductType: "camera"},
		"P1465-LE":  {ProductType: "camera"},
	}}
	msrp := dataset.MSRPDatabase{"P3265-LVE": {MSRP: 1099}}

	s := Collect(statsFixture(), specs, nil, msrp)

	assert.Equal(t, 4, s.TotalMappings)
	assert.Equal(t, 1, s.LegacyMappings)

	// Hikvision first on mapping count, then alphabetical.
	require.Len(t, s.Manufacturers, 3)
	assert.Equal(t, "Hikvision", s.Manufacturers[0].Manufacturer)
	assert.Equal(t, 2, s.Manufacturers[0].Mappings)
	assert.InDelta(t, 83.0, s.Manufacturers[0].AvgConfidence, 0.001)
	assert.Equal(t, "banned", s.Manufacturers[0].NDAACategory)
	assert.Equal(t, "Dahua", s.Manufacturers[1].Manufacturer)
	assert.Equal(t, "Hanwha", s.Manufacturers[2].Manufacturer)
	assert.Equal(t, "standard", s.Manufacturers[2].NDAACategory)

	require.Len(t, s.ConfidenceBuckets, 4)
	assert.Equal(t, ConfidenceBucket{Label: "90-100", Count: 1}, s.ConfidenceBuckets[0])
	assert.Equal(t, ConfidenceBucket{Label: "70-89", Count: 1}, s.ConfidenceBuckets[1])
	assert.Equal(t, ConfidenceBucket{Label: "50-69", Count: 1}, s.ConfidenceBuckets[2])
	assert.Equal(t, ConfidenceBucket{Label: "<50", Count: 1}, s.ConfidenceBuckets[3])

	// Three distinct replacement models; 2 with specs, 1 with a price,
	// no accessory data configured.
	assert.Equal(t, 3, s.Coverage.ReplacementModels)
	assert.InDelta(t, 2.0/3.0, s.Coverage.SpecCoverage, 0.001)
	assert.InDelta(t, 1.0/3.0, s.Coverage.MSRPCoverage, 0.001)
	assert.Zero(t, s.Coverage.AccessoryCoverage)
}

func TestCollect_EmptyDataset(t *testing.T) {
	s := Collect(&dataset.CrossRef{}, nil, nil, nil)

	assert.Zero(t, s.TotalMappings)
	assert.Empty(t, s.Manufacturers)
	assert.Zero(t, s.Coverage.ReplacementModels)
	assert.Zero(t, s.Coverage.SpecCoverage)
}
