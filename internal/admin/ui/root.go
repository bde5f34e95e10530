// Package ui implements the admin TUI screens.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hackterm/internal/admin/app"
)

type screen int

const (
	screenHome screen = iota
	screenUsers
	screenGuestbook
)

type rootModel struct {
	app *app.App

	width  int
	height int

	active screen

	homeList list.Model
	err      error

	users     *usersModel
	guestbook *guestbookModel
}

type menuItem struct {
	title string
	desc  string
	to    screen
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func NewRootModel(a *app.App) tea.Model {
	items := []list.Item{
		menuItem{title: "Accounts", desc: "Manage the simulated access accounts", to: screenUsers},
		menuItem{title: "Guestbook", desc: "Read visitor messages", to: screenGuestbook},
		menuItem{title: "Quit", desc: "Exit", to: -1},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "hackterm admin"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	return &rootModel{
		app:      a,
		active:   screenHome,
		homeList: l,
	}
}

func (m *rootModel) Init() tea.Cmd {
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.homeList.SetSize(msg.Width, msg.Height-2)
		if m.users != nil {
			m.users.SetSize(msg.Width, msg.Height)
		}
		if m.guestbook != nil {
			m.guestbook.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.active {
	case screenHome:
		return m.updateHome(msg)
	case screenUsers:
		if m.users == nil {
			m.users = newUsersModel(m.app)
			m.users.SetSize(m.width, m.height)
		}
		cmd := m.users.Update(msg)
		if m.users.Done {
			m.active = screenHome
			m.users = nil
		}
		return m, cmd
	case screenGuestbook:
		if m.guestbook == nil {
			m.guestbook = newGuestbookModel(m.app)
			m.guestbook.SetSize(m.width, m.height)
		}
		cmd := m.guestbook.Update(msg)
		if m.guestbook.Done {
			m.active = screenHome
			m.guestbook = nil
		}
		return m, cmd
	default:
		return m, nil
	}
}

func (m *rootModel) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if it, ok := m.homeList.SelectedItem().(menuItem); ok {
			if it.to == -1 {
				return m, tea.Quit
			}
			m.active = it.to
			return m, nil
		}
	}
	return m, cmd
}

func (m *rootModel) View() string {
	if m.err != nil {
		return errStyle.Render("Error: ") + m.err.Error()
	}

	switch m.active {
	case screenHome:
		return m.homeList.View()
	case screenUsers:
		if m.users == nil {
			return "Loading accounts..."
		}
		return m.users.View()
	case screenGuestbook:
		if m.guestbook == nil {
			return "Loading guestbook..."
		}
		return m.guestbook.View()
	default:
		return titleStyle.Render("Unknown screen") + "\n" + fmt.Sprint(m.active)
	}
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
