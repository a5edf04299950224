// Package tui is the interactive search front end. Keystrokes are
// debounced: each edit arms a fixed short timer and supersedes the
// in-flight one, so the engine never runs per keystroke.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oneshot2001/axisfinder/internal/config"
	"github.com/oneshot2001/axisfinder/internal/logger"
	"github.com/oneshot2001/axisfinder/internal/resolve"
	"github.com/oneshot2001/axisfinder/internal/search"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	exactStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	similarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bannedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	suggestionStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

// Options configures the TUI session.
type Options struct {
	InitialQuery string
	MaxResults   int
}

// Services are the injected lookups the TUI renders from.
type Services struct {
	Engine      *search.Engine
	URLs        resolve.URLResolver
	Specs       resolve.SpecLookup
	MSRP        resolve.MSRPLookup
	Accessories resolve.AccessoryLookup
}

type debounceMsg struct {
	seq int
}

type model struct {
	input    textinput.Model
	services Services
	cfg      *config.Config
	log      *logger.Logger

	seq         int
	response    *search.Response
	results     []search.Result
	cursor      int
	maxResults  int
	showDetails bool
	quitting    bool
}

// Run starts the interactive session.
func Run(cfg *config.Config, services Services, opts Options) error {
	input := textinput.New()
	input.Placeholder = "competitor model, legacy model, or manufacturer"
	input.Prompt = "search> "
	input.Focus()
	input.SetValue(opts.InitialQuery)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 15
	}

	m := model{
		input:      input,
		services:   services,
		cfg:        cfg,
		log:        logger.GetLogger().TUI(),
		maxResults: maxResults,
	}
	if opts.InitialQuery != "" {
		m.runSearch()
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// debounce arms the search timer for the current edit; an older timer's
// message no longer matches seq and is dropped.
func (m *model) debounce() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(m.cfg.DebounceInterval(), func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *model) runSearch() {
	q := strings.TrimSpace(m.input.Value())
	if len(q) < m.cfg.Search.MinQueryLength {
		m.response = nil
		m.results = nil
		m.cursor = 0
		return
	}
	m.response = m.services.Engine.Search(q)
	m.results = m.response.Results()
	if len(m.results) > m.maxResults {
		m.results = m.results[:m.maxResults]
	}
	if m.cursor >= len(m.results) {
		m.cursor = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.results) > 0 {
				m.showDetails = !m.showDetails
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, tea.Batch(cmd, m.debounce())

	case debounceMsg:
		if msg.seq != m.seq {
			// Superseded by a newer keystroke.
			return m, nil
		}
		m.runSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("axisfinder"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.response == nil {
		b.WriteString(mutedStyle.Render("type to search"))
		b.WriteString("\n")
		return b.String()
	}

	if m.response.Browse {
		b.WriteString(mutedStyle.Render("browse query: showing the static catalog is up to the caller"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("type=%s confidence=%s", m.response.QueryType, m.response.Confidence)))
	b.WriteString("\n")

	for i, r := range m.results {
		line := fmt.Sprintf("%-22s %-12s → %-16s %3d", r.Mapping.CompetitorModel,
			r.Mapping.CompetitorManufacturer, r.Mapping.AxisReplacement, r.Score)
		line = m.tierStyle(r).Render(line)
		if r.NDAACategory == search.NDAABanned || r.NDAACategory == search.NDAASubsidiary {
			line += " " + bannedStyle.Render("["+r.NDAACategory+"]")
		}
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.results) == 0 {
		b.WriteString(mutedStyle.Render("no matches"))
		b.WriteString("\n")
	}
	if len(m.response.Suggestions) > 0 {
		b.WriteString(suggestionStyle.Render("did you mean: " + strings.Join(m.response.Suggestions, ", ")))
		b.WriteString("\n")
	}

	if m.showDetails && m.cursor < len(m.results) {
		b.WriteString("\n")
		b.WriteString(m.renderDetails(m.results[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/↓ select · enter details · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) tierStyle(r search.Result) lipgloss.Style {
	switch string(r.Tier) {
	case "exact":
		return exactStyle
	case "partial":
		return partialStyle
	default:
		return similarStyle
	}
}

// renderDetails resolves the selected replacement through every cascade
// and shows each answer with its trust tag.
func (m model) renderDetails(r search.Result) string {
	var b strings.Builder
	replacement := r.Mapping.AxisReplacement

	b.WriteString(titleStyle.Render(replacement))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  url: %s (%s)\n", r.URL.URL, r.URL.Confidence))

	if spec := m.services.Specs.Lookup(replacement); spec.Confidence != resolve.ConfidenceNone {
		b.WriteString(fmt.Sprintf("  spec: %s %s (%s)\n", spec.Spec.ProductType, spec.Spec.Resolution, spec.Confidence))
		if spec.Warning != "" {
			b.WriteString(warningStyle.Render("  ⚠ " + spec.Warning))
			b.WriteString("\n")
		}
	}

	if price := m.services.MSRP.Lookup(replacement); price.Confidence != resolve.ConfidenceNone {
		b.WriteString(fmt.Sprintf("  msrp: $%.2f (%s)\n", price.Entry.MSRP, price.Confidence))
	} else {
		b.WriteString(mutedStyle.Render("  msrp: unknown"))
		b.WriteString("\n")
	}

	acc := m.services.Accessories.ResolveWithConfidence(replacement)
	if acc.Confidence != resolve.ConfidenceNone {
		b.WriteString(fmt.Sprintf("  accessories: %d (%s)\n", len(acc.Accessories), acc.Confidence))
		if acc.Warning != "" {
			b.WriteString(warningStyle.Render("  ⚠ " + acc.Warning))
			b.WriteString("\n")
		}
	}

	return b.String()
}
