package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/watcher"
)

// FileChangedMsg is sent when the outline source changes on disk.
type FileChangedMsg struct{}

// ReloadedMsg carries the result of reloading the outline source.
type ReloadedMsg struct {
	Doc *model.Document
	Err error
}

// Reloader loads a fresh copy of the document.
type Reloader func(ctx context.Context) (*model.Document, error)

// WatchFileCmd returns a command that waits for changes and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs load off the event loop and reports the result.
func ReloadCmd(load Reloader) tea.Cmd {
	return func() tea.Msg {
		doc, err := load(context.Background())
		return ReloadedMsg{Doc: doc, Err: err}
	}
}
