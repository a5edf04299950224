package dataset

import "github.com/oneshot2001/axisfinder/internal/modelkey"

// EnrichSubtypes returns a new spec snapshot with camera subtypes filled
// from the given overlay. Gaps are filled, populated fields are never
// overwritten, and non-camera entries are left alone. The input snapshot
// is not mutated; data maintenance always produces a fresh snapshot that
// replaces the served one wholesale.
func EnrichSubtypes(db *SpecDatabase, subtypes map[string]string) (*SpecDatabase, int) {
	out := &SpecDatabase{
		Products: make(map[string]ProductSpec, len(db.Products)),
		Metadata: db.Metadata,
	}
	filled := 0
	for key, spec := range db.Products {
		if spec.ProductType == "camera" && spec.CameraSubtype == "" {
			if sub, ok := subtypes[modelkey.Normalize(key)]; ok && sub != "" {
				spec.CameraSubtype = sub
				filled++
			}
		}
		out.Products[key] = spec
	}
	return out, filled
}
