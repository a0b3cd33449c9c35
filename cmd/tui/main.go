package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"spikealign/internal/fasta"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	alignedStyle = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	droppedStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// SeqRecord is one header line as the extractor sees it: any line holding
// the sentinel starts a record. Extracted is what the batch aligns for it
// and QueryIndex its position in the batch, or -1 when Dropped. Parsed is
// the header-aware sequence for the same header, if the header-aware
// reader recognises the line as a header at all.
type SeqRecord struct {
	Header     string
	Parsed     string
	Extracted  string
	QueryIndex int
	Dropped    bool
}

const preambleHeader = "(before first header)"

// buildRecords walks lines with the same header rule as fasta.Split so
// record i always owns extracted[i]. Text before the first header becomes a
// leading dropped record.
func buildRecords(lines []string, opts fasta.Options) []SeqRecord {
	extracted := fasta.Extract(lines, opts)
	parsed := fasta.ParseFasta(strings.NewReader(strings.Join(lines, "")))

	var recs []SeqRecord
	var preamble strings.Builder
	nextParsed := 0
	for _, l := range lines {
		if !strings.Contains(l, fasta.Sentinel) {
			if len(recs) == 0 {
				preamble.WriteString(strings.TrimRight(l, "\n"))
			}
			continue
		}
		line := strings.TrimRight(l, "\n")
		rec := SeqRecord{Header: strings.TrimPrefix(line, ">"), QueryIndex: -1}
		if strings.HasPrefix(line, ">") && len(line) > 1 && nextParsed < len(parsed) {
			rec.Parsed = parsed[nextParsed].Sequence
			nextParsed++
		}
		recs = append(recs, rec)
	}
	for i := range recs {
		if i < len(extracted) {
			recs[i].Extracted = extracted[i]
			recs[i].QueryIndex = i
		} else {
			recs[i].Dropped = true
		}
	}
	if preamble.Len() > 0 {
		lead := SeqRecord{Header: preambleHeader, Parsed: preamble.String(), QueryIndex: -1, Dropped: true}
		recs = append([]SeqRecord{lead}, recs...)
	}
	return recs
}

// gcFraction reports the share of G and C among nucleotide letters.
func gcFraction(s string) float64 {
	var gc, total int
	for _, c := range strings.ToUpper(s) {
		switch c {
		case 'G', 'C':
			gc++
			total++
		case 'A', 'T', 'U':
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(gc) / float64(total)
}

type listItem struct {
	record SeqRecord
}

func (i listItem) FilterValue() string {
	return i.record.Header
}

func (i listItem) Title() string {
	return i.record.Header
}

func (i listItem) Description() string {
	if i.record.Dropped {
		return droppedStyle.Render("dropped") + fmt.Sprintf("    len: %d", len(i.record.Parsed))
	}
	return alignedStyle.Render(fmt.Sprintf("query #%d", i.record.QueryIndex)) + fmt.Sprintf("    len: %d", len(i.record.Extracted))
}

type mode int

const (
	modeExtracted mode = iota
	modeParsed
	modeStats
)

func (m mode) String() string {
	switch m {
	case modeExtracted:
		return "Extracted"
	case modeParsed:
		return "Parsed"
	case modeStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	path          string
	records       []SeqRecord
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func initialModel(path string, records []SeqRecord) model {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = listItem{record: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Records"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		path:        path,
		records:     records,
		currentMode: modeExtracted,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeExtracted
			return m, nil
		case "2":
			m.currentMode = modeParsed
			return m, nil
		case "3":
			m.currentMode = modeStats
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	left := containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4)

	if len(m.records) == 0 {
		return panel.Render("No records in " + m.path)
	}
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No record selected")
	}
	return panel.Render(strings.Join(m.buildRightLines(item), "\n"))
}

// buildRightLines renders the detail panel for one record as lines.
func (m model) buildRightLines(item listItem) []string {
	rec := item.record
	lines := []string{titleStyle.Render(rec.Header)}
	if rec.Dropped {
		lines = append(lines, droppedStyle.Render("not aligned: the extractor drops this record"))
	} else {
		lines = append(lines, alignedStyle.Render(fmt.Sprintf("aligned as query #%d", rec.QueryIndex)))
	}
	lines = append(lines, "")

	switch m.currentMode {
	case modeExtracted:
		lines = append(lines, m.formatSequence(rec.Extracted, "Extracted query"))
	case modeParsed:
		lines = append(lines, m.formatSequence(rec.Parsed, "Parsed sequence"))
	case modeStats:
		lines = append(lines,
			labelStyle.Render("parsed length:    ")+fmt.Sprint(len(rec.Parsed)),
			labelStyle.Render("extracted length: ")+fmt.Sprint(len(rec.Extracted)),
			labelStyle.Render("GC fraction:      ")+fmt.Sprintf("%.3f", gcFraction(rec.Parsed)),
		)
		if !rec.Dropped && rec.Parsed != rec.Extracted {
			lines = append(lines, droppedStyle.Render("extracted query differs from parsed sequence"))
		}
	}
	return lines
}

func (m model) formatSequence(sequence, title string) string {
	if sequence == "" {
		return labelStyle.Render(fmt.Sprintf("No %s available", strings.ToLower(title)))
	}
	width := m.width*2/3 - 6
	if width < 10 {
		width = 10
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(title+":"),
		"",
		sequenceStyle.Width(width).Render(sequence),
	)
}

func (m model) renderStatusBar() string {
	dropped := 0
	for _, r := range m.records {
		if r.Dropped {
			dropped++
		}
	}
	content := fmt.Sprintf("%d/%d records | %d dropped | Mode: %s | 'h' help, 'q' quit",
		m.selectedIndex+1, len(m.records), dropped, m.currentMode)
	return statusBarStyle.Width(m.width).Render(content)
}

func (m model) renderHelpModal() string {
	helpContent := `Sequence Record Browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter by header

View Modes:
  1              Extracted query (what is aligned)
  2              Header-aware parsed sequence
  3              Lengths and GC fraction
  tab            Cycle modes

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Current Mode: ` + m.currentMode.String() + `
Total Records: ` + fmt.Sprint(len(m.records)) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	keepLast := flag.Bool("keep-last", false, "extract the record after the last header too")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tui [-keep-last] <sequence file>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	lines, err := fasta.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(path, buildRecords(lines, fasta.Options{KeepTrailing: *keepLast})), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
