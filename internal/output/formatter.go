package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/oneshot2001/axisfinder/internal/config"
	"github.com/oneshot2001/axisfinder/internal/fuzzy"
	"github.com/oneshot2001/axisfinder/internal/resolve"
	"github.com/oneshot2001/axisfinder/internal/search"
)

// Formatter provides a high-level interface for CLI output formatting
type Formatter struct {
	colorFormatter *ColorFormatter
	verboseMode    bool
	quietMode      bool
	jsonMode       bool
}

// NewFormatter creates a new formatter instance from config
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		colorFormatter: NewColorFormatter(&cfg.Output),
		jsonMode:       cfg.Output.JSON,
	}
}

// SetFlags configures the formatter based on command line flags
func (f *Formatter) SetFlags(verbose, quiet, noColor, jsonOut bool) {
	f.verboseMode = verbose
	f.quietMode = quiet
	f.jsonMode = f.jsonMode || jsonOut
	f.colorFormatter.SetNoColor(noColor)
}

// Success prints a success message (always shown unless quiet)
func (f *Formatter) Success(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Success(fmt.Sprintf(format, args...)))
	}
}

// Error prints an error message (always shown)
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, f.colorFormatter.Error(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message (always shown unless quiet)
func (f *Formatter) Warning(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Warning(fmt.Sprintf(format, args...)))
	}
}

// Info prints an info message (shown unless quiet)
func (f *Formatter) Info(format string, args ...interface{}) {
	if !f.quietMode {
		fmt.Println(f.colorFormatter.Info(fmt.Sprintf(format, args...)))
	}
}

// Verbose prints only in verbose mode
func (f *Formatter) Verbose(format string, args ...interface{}) {
	if f.verboseMode && !f.quietMode {
		fmt.Println(f.colorFormatter.Muted(fmt.Sprintf(format, args...)))
	}
}

// JSON marshals v to stdout, used by every command's --json path.
func (f *Formatter) JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONMode reports whether structured output was requested.
func (f *Formatter) JSONMode() bool {
	return f.jsonMode
}

// PrintResponse renders a search response: tier sections in rank order,
// then suggestions when the match was weak.
func (f *Formatter) PrintResponse(resp *search.Response) {
	if f.jsonMode {
		_ = f.JSON(resp)
		return
	}

	c := f.colorFormatter
	if resp.Browse {
		fmt.Printf("%s browse the Axis catalog for %q\n", c.Info("→"), resp.Query)
		return
	}

	fmt.Printf("%s  query=%q  type=%s  confidence=%s\n",
		c.Header("Search results"), resp.Query, resp.QueryType, c.Confidence(resp.Confidence))

	printTier := func(label string, results []search.Result) {
		if len(results) == 0 {
			return
		}
		fmt.Println(c.Header(label))
		for _, r := range results {
			f.printResult(r)
		}
	}
	printTier("Exact matches", resp.Exact)
	printTier("Partial matches", resp.Partial)
	printTier("Similar matches", resp.Similar)

	if len(resp.Results()) == 0 {
		fmt.Println(c.Muted("  no matches"))
	}
	if len(resp.Suggestions) > 0 {
		fmt.Printf("%s %s\n", c.Header("Did you mean:"), strings.Join(resp.Suggestions, ", "))
	}
}

func (f *Formatter) printResult(r search.Result) {
	c := f.colorFormatter
	m := r.Mapping
	line := fmt.Sprintf("  %-24s %-14s → %-18s score=%-3d tier=%s ndaa=%s",
		m.CompetitorModel, m.CompetitorManufacturer, m.AxisReplacement,
		r.Score, c.Confidence(string(r.Tier)), c.NDAA(r.NDAACategory))
	fmt.Println(line)
	if r.Tier != fuzzy.TierExact || f.verboseMode {
		fmt.Printf("    %s %s (%s)\n", c.Muted("url:"), r.URL.URL, c.Confidence(r.URL.Confidence))
	}
	if r.Legacy != nil && r.Legacy.DiscontinuedYear > 0 {
		fmt.Printf("    %s discontinued %d\n", c.Muted("note:"), r.Legacy.DiscontinuedYear)
	}
}

// PrintURLResult renders a resolver answer with its trust tag.
func (f *Formatter) PrintURLResult(model string, res resolve.URLResult) {
	if f.jsonMode {
		_ = f.JSON(res)
		return
	}
	c := f.colorFormatter
	fmt.Printf("%s %s (%s)\n", c.Header(model), res.URL, c.Confidence(res.Confidence))
	if res.IsDiscontinued {
		fmt.Println(c.Warning("  model is discontinued"))
	}
	if res.Confidence != resolve.URLVerified {
		fmt.Println(c.Muted("  link not hand-verified, confirm before sending"))
	}
}

// PrintWarningBanner renders a cascade warning so fallback data is never
// mistaken for an exact answer.
func (f *Formatter) PrintWarningBanner(warning string) {
	if warning != "" && !f.jsonMode {
		fmt.Println(f.colorFormatter.Warning("  ⚠ " + warning))
	}
}
