package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wavedl/internal/tasks"
)

// eventBatchMsg carries one or more worker events into the Update loop.
type eventBatchMsg struct {
	events []tasks.Event
}

// eventsClosedMsg signals that the worker's event channel was closed.
type eventsClosedMsg struct{}

var (
	_ tea.Msg = eventBatchMsg{}
	_ tea.Msg = eventsClosedMsg{}
)

// listenEvents waits for the next worker event, then greedily drains any
// that are already buffered so a burst renders in one frame.
func listenEvents(events <-chan tasks.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}

		batch := []tasks.Event{ev}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return eventBatchMsg{events: batch}
				}
				batch = append(batch, ev)
			default:
				return eventBatchMsg{events: batch}
			}
		}
	}
}
