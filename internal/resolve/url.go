package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/modelkey"
)

// URLResult carries a product page URL and how much to trust it.
type URLResult struct {
	URL            string `json:"url"`
	Confidence     string `json:"confidence"`
	IsDiscontinued bool   `json:"is_discontinued"`
}

// ProductURLResolver resolves models to axis.com product pages through a
// verified-link table, an alias table for known typos and variants, and a
// discontinued-model set, falling back to a constructed URL when nothing
// curated applies.
type ProductURLResolver struct {
	verified     map[string]string
	aliases      map[string]string
	discontinued map[string]bool
	log          *logger.Logger
}

// NewProductURLResolver builds a resolver. verified maps ModelKey to a
// hand-curated known-good URL; aliases maps misspelled or variant keys to
// their canonical ModelKey; discontinued holds legacy keys that no longer
// have a product page.
func NewProductURLResolver(verified, aliases map[string]string, discontinued map[string]bool) *ProductURLResolver {
	v := make(map[string]string, len(verified))
	for k, u := range verified {
		v[modelkey.Normalize(k)] = u
	}
	a := make(map[string]string, len(aliases))
	for k, canonical := range aliases {
		a[modelkey.Normalize(k)] = modelkey.Normalize(canonical)
	}
	d := make(map[string]bool, len(discontinued))
	for k := range discontinued {
		d[modelkey.Normalize(k)] = true
	}
	return &ProductURLResolver{
		verified:     v,
		aliases:      a,
		discontinued: d,
		log:          logger.GetLogger().Resolver(),
	}
}

// Resolve walks the cascade: verified link on the exact key, verified link
// on the base model, alias redirect, discontinued search fallback, then a
// generated product URL as last resort. The confidence tag tells the
// caller which rung produced the answer.
func (r *ProductURLResolver) Resolve(model string) URLResult {
	key := modelkey.Normalize(model)
	if key == "" {
		return URLResult{URL: searchURL(""), Confidence: URLSearchFallback}
	}

	if u, ok := r.verified[key]; ok {
		return URLResult{URL: u, Confidence: URLVerified, IsDiscontinued: r.discontinued[key]}
	}

	if base := modelkey.BaseModel(key); base != key {
		if u, ok := r.verified[base]; ok {
			return URLResult{URL: u, Confidence: URLVerified, IsDiscontinued: r.discontinued[base]}
		}
	}

	if canonical, ok := r.aliases[key]; ok {
		if u, ok := r.verified[canonical]; ok {
			return URLResult{URL: u, Confidence: URLAlias, IsDiscontinued: r.discontinued[canonical]}
		}
		return URLResult{URL: productURL(canonical), Confidence: URLAlias, IsDiscontinued: r.discontinued[canonical]}
	}

	if r.discontinued[key] || r.discontinued[modelkey.BaseModel(key)] {
		r.log.Debug().Str("model", key).Msg("discontinued model, returning search URL")
		return URLResult{URL: searchURL(key), Confidence: URLSearchFallback, IsDiscontinued: true}
	}

	return URLResult{URL: productURL(key), Confidence: URLGenerated}
}

func productURL(key string) string {
	slug := strings.ToLower(key)
	return fmt.Sprintf("https://www.axis.com/products/axis-%s", slug)
}

func searchURL(key string) string {
	return "https://www.axis.com/search?q=" + url.QueryEscape(key)
}
