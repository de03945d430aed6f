package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"likeshelf/internal/domain"
	"likeshelf/internal/likes"
)

// inputMode says what the text input currently drives
type inputMode int

const (
	inputNone   inputMode = iota
	inputSearch           // substring search against the store
	inputFilter           // fuzzy filter over the loaded rows
)

// Model is the main Bubble Tea model for the application
type Model struct {
	svc     *likes.Service
	account string // channel name of the signed-in user, may be empty
	logger  *slog.Logger

	keys    keyMap
	input   textinput.Model
	spin    spinner.Model
	mode    inputMode
	busy    bool // an operation is in flight; triggers are disabled
	busyLbl string

	records []*domain.VideoRecord // current query results
	rows    []*domain.VideoRecord // records after the fuzzy filter
	cursor  int
	total   int

	sortMode domain.SortMode
	search   string
	filter   string

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel creates the application model. account is the signed-in channel
// name shown in the header, or empty when the profile lookup failed.
func NewModel(svc *likes.Service, account string, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		svc:      svc,
		account:  account,
		logger:   logger,
		keys:     defaultKeyMap(),
		input:    ti,
		spin:     sp,
		sortMode: domain.SortLoggedDesc,
	}
}

func (m Model) Init() tea.Cmd {
	return LoadRecordsCmd(m.svc, m.sortMode, m.search)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case RecordsLoadedMsg:
		m.records = msg.Records
		m.total = msg.Total
		m.applyFilter()
		return m, nil

	case SyncDoneMsg:
		m.busy = false
		m.setStatus(fmt.Sprintf("Synced %d items (%d new)", msg.Result.Fetched, msg.Result.Inserted), false)
		return m, LoadRecordsCmd(m.svc, m.sortMode, m.search)

	case ThumbsDoneMsg:
		m.busy = false
		if msg.Cached == 0 {
			m.setStatus("All thumbnails already cached", false)
		} else {
			m.setStatus(fmt.Sprintf("Cached %d thumbnails", msg.Cached), false)
		}
		return m, LoadRecordsCmd(m.svc, m.sortMode, m.search)

	case AvailabilityDoneMsg:
		m.busy = false
		m.setStatus(fmt.Sprintf("Checked %d ids, %d missing", msg.Checked, msg.Missing), false)
		return m, LoadRecordsCmd(m.svc, m.sortMode, m.search)

	case ExportDoneMsg:
		m.busy = false
		if msg.Saved {
			m.setStatus("Exported JSON", false)
		} else {
			m.setStatus("Export cancelled", false)
		}
		return m, nil

	case ErrMsg:
		m.busy = false
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing, keys feed the input except esc/enter.
	if m.mode != inputNone {
		switch msg.String() {
		case "esc":
			m.mode = inputNone
			m.input.Blur()
			m.input.SetValue("")
			m.search = ""
			m.filter = ""
			m.applyFilter()
			return m, LoadRecordsCmd(m.svc, m.sortMode, "")
		case "enter":
			m.mode = inputNone
			m.input.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			if m.mode == inputSearch {
				m.search = m.input.Value()
				return m, tea.Batch(cmd, LoadRecordsCmd(m.svc, m.sortMode, m.search))
			}
			m.filter = m.input.Value()
			m.applyFilter()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortMode = m.sortMode.Next()
		return m, LoadRecordsCmd(m.svc, m.sortMode, m.search)

	case key.Matches(msg, m.keys.Search):
		m.mode = inputSearch
		m.input.Placeholder = "search title or channel"
		m.input.SetValue(m.search)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Filter):
		m.mode = inputFilter
		m.input.Placeholder = "fuzzy filter"
		m.input.SetValue(m.filter)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Sync):
		return m.startOp("Syncing", SyncCmd(m.svc))

	case key.Matches(msg, m.keys.Thumbs):
		return m.startOp("Caching thumbnails", CacheThumbsCmd(m.svc))

	case key.Matches(msg, m.keys.Check):
		return m.startOp("Checking availability", CheckAvailabilityCmd(m.svc))

	case key.Matches(msg, m.keys.Export):
		return m.startOp("Exporting", ExportCmd(m.svc))
	}

	return m, nil
}

// startOp kicks off an async operation unless one is already running.
func (m Model) startOp(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("Busy: "+m.busyLbl, false)
		return m, nil
	}
	m.busy = true
	m.busyLbl = label
	m.setStatus("", false)
	return m, tea.Batch(m.spin.Tick, cmd)
}

// applyFilter recomputes the visible rows from the loaded records and the
// fuzzy filter text.
func (m *Model) applyFilter() {
	if strings.TrimSpace(m.filter) == "" {
		m.rows = m.records
	} else {
		titles := make([]string, len(m.records))
		for i, rec := range m.records {
			titles[i] = strings.ToLower(rec.Title + " " + rec.ChannelTitle)
		}
		matches := fuzzy.Find(strings.ToLower(m.filter), titles)
		rows := make([]*domain.VideoRecord, len(matches))
		for i, match := range matches {
			rows[i] = m.records[match.Index]
		}
		m.rows = rows
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	// Header
	header := titleStyle.Render("likeshelf")
	if m.account != "" {
		header += channelStyle.Render("  " + m.account)
	}
	header += dimStyle.Render(fmt.Sprintf("  %d videos", m.total))
	if meta, ok := m.svc.SyncMeta(); ok && meta.LastSyncedAt != "" {
		header += dimStyle.Render("  last sync " + meta.LastSyncedAt)
	}
	header += dimStyle.Render("  sort: ") + accentStyle.Render(m.sortMode.String())
	b.WriteString(header + "\n")

	if m.mode != inputNone {
		b.WriteString(m.input.View() + "\n")
	} else if m.search != "" || m.filter != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("search=%q filter=%q (esc clears)", m.search, m.filter)) + "\n")
	}

	// List
	visible := m.visibleRows()
	for i, rec := range m.rows {
		if i < visible.start || i >= visible.end {
			continue
		}
		b.WriteString(m.renderRow(rec, i == m.cursor) + "\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  nothing here - press s to sync") + "\n")
	}

	// Footer
	footer := footerStyle.Render("s sync · t thumbnails · a availability · e export · o sort · / search · f filter · q quit")
	if m.busy {
		footer = m.spin.View() + " " + m.busyLbl + "...  " + footer
	} else if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		footer = style.Render(m.status) + "  " + footer
	}
	b.WriteString(footer)

	return b.String()
}

type rowRange struct{ start, end int }

// visibleRows keeps the cursor inside the viewport.
func (m Model) visibleRows() rowRange {
	avail := m.height - 4
	if avail < 1 {
		avail = 20
	}
	start := 0
	if m.cursor >= avail {
		start = m.cursor - avail + 1
	}
	return rowRange{start: start, end: start + avail}
}

func (m Model) renderRow(rec *domain.VideoRecord, selected bool) string {
	marker := "  "
	if selected {
		marker = accentStyle.Render("> ")
	}

	thumb := dimStyle.Render("○")
	if rec.HasThumbnail() {
		thumb = statusOKStyle.Render("●")
	}

	title := rec.Title
	if rec.IsMissing {
		title = missingStyle.Render(title) + statusErrStyle.Render(" [missing]")
	} else if selected {
		title = selectedStyle.Render(title)
	}

	line := marker + thumb + " " + title
	if rec.ChannelTitle != "" {
		line += channelStyle.Render("  " + rec.ChannelTitle)
	}
	if rec.Duration != "" {
		line += dimStyle.Render("  " + rec.Duration)
	}

	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}
