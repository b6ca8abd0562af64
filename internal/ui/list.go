package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/wavedl/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = dateItem{}
	_ list.Item = errorItem{}
)

// trackItem wraps [models.TrackEntry] to implement [list.Item].
type trackItem struct {
	entry models.TrackEntry
}

func (i trackItem) FilterValue() string { return i.entry.Artist + " " + i.entry.Title }
func (i trackItem) Title() string       { return fmt.Sprintf("%s - %s", i.entry.Artist, i.entry.Title) }
func (i trackItem) Description() string { return i.entry.Path }

// dateItem is one journal partition with its per-kind counts.
type dateItem struct {
	date     string
	download int
	convert  int
	refresh  int
}

func (i dateItem) FilterValue() string { return i.date }
func (i dateItem) Title() string       { return i.date }
func (i dateItem) Description() string {
	return fmt.Sprintf("%d download, %d convert, %d refresh", i.download, i.convert, i.refresh)
}

// errorItem is one journal entry rendered by index into the model's
// current entry slice.
type errorItem struct {
	title string
	desc  string
	idx   int
}

func (i errorItem) FilterValue() string { return i.title }
func (i errorItem) Title() string       { return i.title }
func (i errorItem) Description() string { return i.desc }
