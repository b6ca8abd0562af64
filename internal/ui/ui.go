package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/wavedl/internal/download"
	"github.com/desertthunder/wavedl/internal/models"
	"github.com/desertthunder/wavedl/internal/store"
	"github.com/desertthunder/wavedl/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	QueueView ViewState = iota
	AddView
	LibraryView
	ErrorDatesView
	ErrorEntriesView
	ConfirmView
)

// addKind selects what a typed link is submitted as.
type addKind int

const (
	addAlbum addKind = iota
	addPlaylist
	addYouTube
	addM3U
)

func (k addKind) String() string {
	switch k {
	case addAlbum:
		return "album"
	case addPlaylist:
		return "playlist"
	case addYouTube:
		return "youtube playlist"
	case addM3U:
		return "m3u only"
	default:
		return "unknown"
	}
}

var qualities = []string{"high", "medium", "low"}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeleteFiles
	confirmDeleteTrack
	confirmM3U
	confirmCleanup
)

type confirmation struct {
	kind   confirmKind
	prompt string
	paths  []string
	name   string
}

// Model represents the TUI application state. It owns the job queue view,
// a log ring, and read-only snapshots of the library and error journal.
type Model struct {
	ctx     context.Context
	worker  *tasks.Worker
	db      *store.Catalog
	journal *store.Journal

	view     ViewState
	prevView ViewState
	width    int
	height   int

	queue  []QueueItem
	nextID int
	logs   []string

	input      textinput.Model
	addAs      addKind
	formatIdx  int
	qualityIdx int
	portable   bool

	libraryList list.Model
	dateList    list.Model
	entryList   list.Model
	errorKind   store.ErrorKind
	errorDate   string

	downloadEntries []store.DownloadError
	convertEntries  []store.ConvertError
	refreshEntries  []store.RefreshError

	confirm confirmation
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The
// worker must already be running; the model only submits requests and
// consumes events.
func NewModel(ctx context.Context, worker *tasks.Worker, db *store.Catalog, journal *store.Journal) *Model {
	input := textinput.New()
	input.Placeholder = "paste a link or search query"
	input.CharLimit = 512

	m := &Model{
		ctx:     ctx,
		worker:  worker,
		db:      db,
		journal: journal,
		view:    QueueView,
		nextID:  1,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.refreshLibrary()

	return m
}

// Init starts listening on the worker's event stream.
func (m *Model) Init() tea.Cmd {
	return listenEvents(m.worker.Events())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.libraryList.SetSize(msg.Width-4, msg.Height-8)
		m.dateList.SetSize(msg.Width-4, msg.Height-8)
		m.entryList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case eventBatchMsg:
		for _, ev := range msg.events {
			m.apply(ev)
		}
		return m, listenEvents(m.worker.Events())

	case eventsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.view {
		case QueueView:
			return m.handleQueueKeys(msg)
		case AddView:
			return m.handleAddKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case ErrorDatesView:
			return m.handleErrorDateKeys(msg)
		case ErrorEntriesView:
			return m.handleErrorEntryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case QueueView:
		return m.renderQueue()
	case AddView:
		return m.renderAdd()
	case LibraryView:
		return m.renderLibrary()
	case ErrorDatesView:
		return m.renderErrorDates()
	case ErrorEntriesView:
		return m.renderErrorEntries()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

// submit enqueues a request and mirrors it as a queue item. A full
// request queue rejects instead of blocking the UI.
func (m *Model) submit(req tasks.Request, name string, total int) {
	if !m.worker.Submit(req) {
		m.pushLog("Request queue is full, try again later")
		return
	}

	m.queue = append(m.queue, QueueItem{ID: req.JobID(), Name: name, Status: StatusPending, Total: total})
}

func (m *Model) takeID() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.input.SetValue("")
		m.input.Focus()
		m.view = AddView
		return m, textinput.Blink
	case key.Matches(msg, m.keys.pause):
		if m.worker.Gate().Toggle() {
			m.pushLog("Paused, current track will finish")
		} else {
			m.pushLog("Resumed")
		}
	case key.Matches(msg, m.keys.library):
		m.refreshLibrary()
		m.view = LibraryView
	case key.Matches(msg, m.keys.errLog):
		m.refreshErrors()
		m.view = ErrorDatesView
	case key.Matches(msg, m.keys.cleanup):
		m.askCleanup()
	}

	return m, nil
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.view = QueueView
		return m, nil
	case "tab":
		m.addAs = (m.addAs + 1) % 4
		return m, nil
	case "ctrl+f":
		m.formatIdx = (m.formatIdx + 1) % len(download.SupportedFormats)
		return m, nil
	case "ctrl+r":
		m.qualityIdx = (m.qualityIdx + 1) % len(qualities)
		return m, nil
	case "ctrl+p":
		m.portable = !m.portable
		return m, nil
	case "enter":
		link := strings.TrimSpace(m.input.Value())
		if link == "" {
			return m, nil
		}

		m.submitLink(link)
		m.input.Blur()
		m.view = QueueView
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitLink(link string) {
	id := m.takeID()
	format := download.SupportedFormats[m.formatIdx]
	quality := qualities[m.qualityIdx]

	switch m.addAs {
	case addAlbum:
		m.submit(tasks.AlbumRequest{ID: id, Link: link, Format: format, Quality: quality, Portable: m.portable}, link, 0)
	case addPlaylist:
		m.submit(tasks.PlaylistRequest{ID: id, Link: link, Format: format, Quality: quality, Portable: m.portable}, link, 0)
	case addYouTube:
		m.submit(tasks.YouTubePlaylistRequest{ID: id, Link: link, Format: format, Quality: quality, Portable: m.portable}, link, 0)
	case addM3U:
		m.submit(tasks.M3URequest{ID: id, Link: link, Portable: m.portable}, "m3u: "+link, 1)
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = QueueView
		return m, nil
	case key.Matches(msg, m.keys.convert):
		if entry, ok := m.selectedTrack(); ok {
			id := m.takeID()
			m.submit(tasks.ConvertRequest{
				ID:        id,
				InputPath: entry.Path,
				Format:    download.SupportedFormats[m.formatIdx],
				Quality:   qualities[m.qualityIdx],
				Artist:    entry.Artist,
				Title:     entry.Title,
			}, "convert: "+entry.Title, 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		tracks := m.db.Tracks()
		if len(tracks) == 0 {
			return m, nil
		}

		items := make([]tasks.ConvertItem, len(tracks))
		for i, t := range tracks {
			items[i] = tasks.ConvertItem{InputPath: t.Path, Artist: t.Artist, Title: t.Title}
		}

		id := m.takeID()
		m.submit(tasks.ConvertBatchRequest{
			ID:      id,
			Items:   items,
			Format:  download.SupportedFormats[m.formatIdx],
			Quality: qualities[m.qualityIdx],
		}, fmt.Sprintf("convert %d tracks", len(items)), len(items))
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		if entry, ok := m.selectedTrack(); ok {
			id := m.takeID()
			m.submit(tasks.RefreshRequest{
				ID:        id,
				InputPath: entry.Path,
				Artist:    entry.Artist,
				Title:     entry.Title,
			}, "refresh: "+entry.Title, 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if entry, ok := m.selectedTrack(); ok {
			m.confirm = confirmation{
				kind:   confirmDeleteTrack,
				prompt: fmt.Sprintf("Delete '%s - %s' and its file?", entry.Artist, entry.Title),
				paths:  []string{entry.Path},
			}
			m.prevView = m.view
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.libraryList, cmd = m.libraryList.Update(msg)
	return m, cmd
}

func (m *Model) selectedTrack() (models.TrackEntry, bool) {
	selected := m.libraryList.SelectedItem()
	if selected == nil {
		return models.TrackEntry{}, false
	}

	item, ok := selected.(trackItem)
	if !ok {
		return models.TrackEntry{}, false
	}
	return item.entry, true
}

func (m *Model) handleErrorDateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = QueueView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if selected := m.dateList.SelectedItem(); selected != nil {
			if d, ok := selected.(dateItem); ok {
				m.errorDate = d.date
				m.errorKind = store.KindDownload
				m.refreshEntryList()
				m.view = ErrorEntriesView
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		if selected := m.dateList.SelectedItem(); selected != nil {
			if d, ok := selected.(dateItem); ok {
				id := m.takeID()
				m.submit(tasks.PurgeErrorsRequest{ID: id, Scope: tasks.PurgeDate, Date: d.date}, "clear "+d.date, 1)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dateList, cmd = m.dateList.Update(msg)
	return m, cmd
}

func (m *Model) handleErrorEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		switch m.errorKind {
		case store.KindDownload:
			m.errorKind = store.KindConvert
		case store.KindConvert:
			m.errorKind = store.KindRefresh
		default:
			m.errorKind = store.KindDownload
		}
		m.refreshEntryList()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ErrorDatesView
		return m, nil
	case key.Matches(msg, m.keys.retry):
		m.retrySelected()
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if id, ok := m.selectedEntryID(); ok {
			m.submit(tasks.PurgeErrorsRequest{
				ID:      m.takeID(),
				Scope:   tasks.PurgeEntry,
				Kind:    m.errorKind,
				Date:    m.errorDate,
				EntryID: id,
			}, "delete error entry", 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) selectedEntryIdx() (int, bool) {
	selected := m.entryList.SelectedItem()
	if selected == nil {
		return 0, false
	}

	item, ok := selected.(errorItem)
	return item.idx, ok
}

func (m *Model) selectedEntryID() (string, bool) {
	idx, ok := m.selectedEntryIdx()
	if !ok {
		return "", false
	}

	switch m.errorKind {
	case store.KindDownload:
		return m.downloadEntries[idx].ID, true
	case store.KindConvert:
		return m.convertEntries[idx].ID, true
	default:
		return m.refreshEntries[idx].ID, true
	}
}

// retrySelected reconstructs the original request from a journal entry and
// re-enqueues it. The worker settles the entry: removed on success, retry
// counter bumped on another failure.
func (m *Model) retrySelected() {
	idx, ok := m.selectedEntryIdx()
	if !ok {
		return
	}

	id := m.takeID()

	switch m.errorKind {
	case store.KindDownload:
		e := m.downloadEntries[idx]
		ref := &tasks.RetryRef{Kind: store.KindDownload, Date: m.errorDate, ID: e.ID}
		switch e.LinkType {
		case "playlist":
			m.submit(tasks.PlaylistRequest{ID: id, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref}, "retry: "+e.Link, 0)
		case "youtube":
			m.submit(tasks.YouTubePlaylistRequest{ID: id, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref}, "retry: "+e.Link, 0)
		default:
			m.submit(tasks.AlbumRequest{ID: id, Link: e.Link, Format: e.Format, Quality: e.Quality, Portable: e.Portable, Retry: ref}, "retry: "+e.Link, 0)
		}

	case store.KindConvert:
		e := m.convertEntries[idx]
		ref := &tasks.RetryRef{Kind: store.KindConvert, Date: m.errorDate, ID: e.ID}
		m.submit(tasks.ConvertRequest{
			ID:              id,
			InputPath:       e.InputPath,
			Format:          e.TargetFormat,
			Quality:         e.Quality,
			RefreshMetadata: e.RefreshMetadata,
			Artist:          e.Artist,
			Title:           e.Title,
			Retry:           ref,
		}, "retry convert: "+e.InputPath, 1)

	case store.KindRefresh:
		e := m.refreshEntries[idx]
		ref := &tasks.RetryRef{Kind: store.KindRefresh, Date: m.errorDate, ID: e.ID}
		m.submit(tasks.RefreshRequest{
			ID:        id,
			InputPath: e.InputPath,
			Artist:    e.Artist,
			Title:     e.Title,
			Retry:     ref,
		}, "retry refresh: "+e.InputPath, 1)
	}

	m.view = QueueView
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.confirm = confirmation{}
		m.view = m.prevView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.acceptConfirmation()
		m.view = m.prevView
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) acceptConfirmation() {
	c := m.confirm
	m.confirm = confirmation{}

	switch c.kind {
	case confirmDeleteFiles:
		m.submit(tasks.DeleteFilesRequest{ID: m.takeID(), Paths: c.paths}, "delete originals", 1)
	case confirmDeleteTrack:
		m.submit(tasks.DeleteFilesRequest{ID: m.takeID(), Paths: c.paths, FromCatalog: true}, "delete track", 1)
	case confirmM3U:
		m.submit(tasks.WriteM3URequest{ID: m.takeID(), Name: c.name, Paths: c.paths, Portable: m.portable}, "m3u: "+c.name, 1)
	case confirmCleanup:
		m.submit(tasks.CleanupRequest{ID: m.takeID()}, "cleanup", 1)
	}
}

func (m *Model) askDeleteOriginals(paths []string) {
	m.confirm = confirmation{
		kind:   confirmDeleteFiles,
		prompt: fmt.Sprintf("Delete %d original file(s) left behind by conversion?", len(paths)),
		paths:  paths,
	}
	m.prevView = m.view
	m.view = ConfirmView
}

func (m *Model) askM3U(name string, paths, missing []string) {
	m.confirm = confirmation{
		kind: confirmM3U,
		prompt: fmt.Sprintf("%d of %d tracks are not in the library. Write '%s' with the %d found?",
			len(missing), len(missing)+len(paths), name, len(paths)),
		paths: paths,
		name:  name,
	}
	m.prevView = m.view
	m.view = ConfirmView
}

func (m *Model) askCleanup() {
	missing := 0
	for _, t := range m.db.Tracks() {
		if _, err := os.Stat(t.Path); err != nil {
			missing++
		}
	}

	if missing == 0 {
		m.pushLog("Library is clean, nothing to remove")
		return
	}

	m.confirm = confirmation{
		kind:   confirmCleanup,
		prompt: fmt.Sprintf("Remove %d entries whose files are missing?", missing),
	}
	m.prevView = m.view
	m.view = ConfirmView
}

func (m *Model) refreshLibrary() {
	tracks := m.db.Tracks()
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{entry: t}
	}

	m.libraryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.libraryList.Title = fmt.Sprintf("Library (%d tracks)", len(tracks))
	if m.width > 0 {
		m.libraryList.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) refreshErrors() {
	dates := m.journal.ListDates()
	items := make([]list.Item, len(dates))
	for i, date := range dates {
		download, convert, refresh := m.journal.ErrorCounts(date)
		items[i] = dateItem{date: date, download: download, convert: convert, refresh: refresh}
	}

	m.dateList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.dateList.Title = "Error Log"
	if m.width > 0 {
		m.dateList.SetSize(m.width-4, m.height-8)
	}

	if m.errorDate != "" {
		m.refreshEntryList()
	}
}

func (m *Model) refreshEntryList() {
	var items []list.Item

	switch m.errorKind {
	case store.KindDownload:
		m.downloadEntries = m.journal.DownloadErrorsForDate(m.errorDate)
		for i, e := range m.downloadEntries {
			title := e.Link
			if e.Title != "" {
				title = fmt.Sprintf("%s - %s", e.Artist, e.Title)
			}
			items = append(items, errorItem{
				title: title,
				desc:  fmt.Sprintf("%s (retries: %d)", e.Error, e.RetryCount),
				idx:   i,
			})
		}
	case store.KindConvert:
		m.convertEntries = m.journal.ConvertErrorsForDate(m.errorDate)
		for i, e := range m.convertEntries {
			items = append(items, errorItem{
				title: e.InputPath,
				desc:  fmt.Sprintf("-> %s: %s (retries: %d)", e.TargetFormat, e.Error, e.RetryCount),
				idx:   i,
			})
		}
	case store.KindRefresh:
		m.refreshEntries = m.journal.RefreshErrorsForDate(m.errorDate)
		for i, e := range m.refreshEntries {
			items = append(items, errorItem{
				title: e.InputPath,
				desc:  fmt.Sprintf("%s (retries: %d)", e.Error, e.RetryCount),
				idx:   i,
			})
		}
	}

	m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.entryList.Title = fmt.Sprintf("%s errors on %s", m.errorKind, m.errorDate)
	if m.width > 0 {
		m.entryList.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) renderQueue() string {
	var b strings.Builder

	title := "Download Queue"
	if m.worker.Gate().Paused() {
		title += " " + styles.warn.Render("[paused]")
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if len(m.queue) == 0 {
		b.WriteString(styles.help.Render("Queue is empty. Press a to add a download.\n"))
	}

	for _, item := range m.queue {
		line := fmt.Sprintf("  %-9s %s", "["+item.Status.String()+"]", item.Name)
		if item.Total > 0 {
			line += fmt.Sprintf(" (%d/%d)", item.Done, item.Total)
		}

		switch item.Status {
		case StatusComplete:
			line = styles.ok.Render(line)
		case StatusFailed:
			line = styles.err.Render(line + " - " + item.Reason)
		}
		b.WriteString(line + "\n")

		if item.CurrentTrack != "" {
			b.WriteString(styles.help.Render("            "+item.CurrentTrack) + "\n")
		}
	}

	b.WriteString("\n")
	for _, line := range tailLines(m.logs, 8) {
		b.WriteString(styles.help.Render(line) + "\n")
	}

	helpKeys := []key.Binding{m.keys.add, m.keys.pause, m.keys.library, m.keys.errLog, m.keys.cleanup, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))

	return b.String()
}

func (m *Model) renderAdd() string {
	title := styles.title.Render("Add Download")

	settings := fmt.Sprintf(
		"\nType: %s (tab)   Format: %s (ctrl+f)   Quality: %s (ctrl+r)   Portable: %v (ctrl+p)\n",
		m.addAs, download.SupportedFormats[m.formatIdx], qualities[m.qualityIdx], m.portable)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.input.View(), settings, helpView)
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.convert, m.keys.all, m.keys.refresh, m.keys.delete, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.libraryList.View(), helpView)
}

func (m *Model) renderErrorDates() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.clear, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.dateList.View(), helpView)
}

func (m *Model) renderErrorEntries() string {
	tabKey := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "kind"))
	helpKeys := []key.Binding{tabKey, m.keys.retry, m.keys.delete, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(m.confirm.prompt)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func tailLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
