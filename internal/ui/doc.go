// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow around the download worker:
//  1. [QueueView] : Watch submitted jobs, tail logs, pause and resume
//  2. [AddView] : Enter a link with format, quality, and portable settings
//  3. [LibraryView] : Browse the catalog, convert, refresh, or delete tracks
//  4. [ErrorDatesView] / [ErrorEntriesView] : Browse the error journal by date and kind, retry or purge entries
//  5. [ConfirmView] : Yes/no prompts for deletions, cleanup, and partial playlists
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Worker events arrive
// through the channel-listen Cmd in message.go and are folded into [QueueItem] state by apply; the model
// submits [tasks.Request] values but never touches the stores directly, so the worker stays their only writer.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
