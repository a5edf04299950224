package search

import "strings"

// NDAA compliance categories attached to search results. Orthogonal to
// matching: the tag travels with the result so the UI can filter or flag,
// it never changes scores or ordering.
const (
	NDAABanned     = "banned"
	NDAASubsidiary = "banned-subsidiary"
	NDAACloud      = "cloud"
	NDAARegional   = "regional"
	NDAAStandard   = "standard"
)

// ndaaCategories maps competitor manufacturers to their compliance tag.
// Section 889 covered vendors and their house brands are listed
// explicitly; anything unlisted is standard.
var ndaaCategories = map[string]string{
	"hikvision": NDAABanned,
	"dahua":     NDAABanned,
	"hytera":    NDAABanned,
	"ezviz":     NDAASubsidiary,
	"lorex":     NDAASubsidiary,
	"annke":     NDAASubsidiary,
	"lts":       NDAASubsidiary,
	"honeywell": NDAARegional,
	"uniview":   NDAARegional,
	"verkada":   NDAACloud,
	"rhombus":   NDAACloud,
	"meraki":    NDAACloud,
}

// NDAACategory returns the compliance tag for a manufacturer name.
func NDAACategory(manufacturer string) string {
	if cat, ok := ndaaCategories[strings.ToLower(strings.TrimSpace(manufacturer))]; ok {
		return cat
	}
	return NDAAStandard
}
