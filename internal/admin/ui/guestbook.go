package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"hackterm/internal/admin/app"
)

type guestbookModel struct {
	app *app.App

	width  int
	height int

	Done bool

	list list.Model
	err  error
}

type entryItem struct {
	title string
	desc  string
}

func (i entryItem) Title() string       { return i.title }
func (i entryItem) Description() string { return i.desc }
func (i entryItem) FilterValue() string { return i.title }

func newGuestbookModel(a *app.App) *guestbookModel {
	m := &guestbookModel{app: a}
	m.reload()
	return m
}

func (m *guestbookModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w, h-2)
}

func (m *guestbookModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc":
			m.Done = true
			return nil
		case "r":
			m.reload()
			return nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *guestbookModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Guestbook error: %v\n\n(q to go back)", m.err)
	}
	return m.list.View() + "\n(r to reload, q to go back)"
}

func (m *guestbookModel) reload() {
	entries, err := m.app.Guestbook.Recent(200)
	if err != nil {
		m.err = err
		return
	}

	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{
			title: fmt.Sprintf("%s - %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Author),
			desc:  e.Body,
		})
	}

	m.list = list.New(items, list.NewDefaultDelegate(), m.width, m.height-2)
	m.list.SetShowStatusBar(false)
	m.list.SetFilteringEnabled(true)
	m.list.SetShowHelp(true)
	m.list.Title = "Guestbook"
}
