package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"hackterm/internal/admin/app"
	"hackterm/internal/auth"
)

type usersModel struct {
	app *app.App

	width  int
	height int

	Done bool

	state usersState

	list list.Model
	err  error

	selected *auth.User

	form *huh.Form

	createUsername string
	createSecret   string
	createRole     string
	createSave     bool

	newSecret string
	pwConfirm string
	pwSave    bool

	roleChoice string
	roleSave   bool

	lockValue bool
	lockSave  bool
}

type usersState int

const (
	usersStateList usersState = iota
	usersStateDetail
	usersStateCreate
	usersStateResetSecret
	usersStateSetRole
	usersStateSetLock
)

type userItem struct {
	username string
	title    string
	desc     string
	kind     string
}

func (i userItem) Title() string       { return i.title }
func (i userItem) Description() string { return i.desc }
func (i userItem) FilterValue() string { return i.title }

func newUsersModel(a *app.App) *usersModel {
	m := &usersModel{app: a, state: usersStateList}
	m.reloadList()
	return m
}

func (m *usersModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w, h-2)
}

func (m *usersModel) Update(msg tea.Msg) tea.Cmd {
	if m.err != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc", "q", "enter":
				m.err = nil
				m.state = usersStateList
				m.form = nil
				m.selected = nil
				m.reloadList()
			}
		}
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			if m.state == usersStateList {
				m.Done = true
				return nil
			}
		case "esc":
			m.back()
			return nil
		}
	}

	switch m.state {
	case usersStateList:
		return m.updateList(msg)
	case usersStateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m *usersModel) updateList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		it, ok := m.list.SelectedItem().(userItem)
		if !ok {
			return cmd
		}
		if it.kind == "create" {
			m.startCreate()
			return nil
		}
		u, err := m.app.Users.Get(it.username)
		if err != nil {
			m.err = err
			return nil
		}
		m.selected = u
		m.state = usersStateDetail
		m.list = newActionList(m.width, m.height)
		return nil
	}
	return cmd
}

func (m *usersModel) updateDetail(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		it, ok := m.list.SelectedItem().(userItem)
		if !ok {
			return cmd
		}
		switch it.kind {
		case "set_role":
			m.startSetRole()
		case "set_lock":
			m.startSetLock()
		case "reset_secret":
			m.startResetSecret()
		case "back":
			m.back()
		}
		return nil
	}
	return cmd
}

func (m *usersModel) updateForm(msg tea.Msg) tea.Cmd {
	if m.form == nil {
		m.err = fmt.Errorf("internal error: form not initialized")
		return nil
	}
	updated, cmd := m.form.Update(msg)
	f, ok := updated.(*huh.Form)
	if !ok {
		m.err = fmt.Errorf("internal error: unexpected form model type")
		return nil
	}
	m.form = f
	if m.form.State != huh.StateCompleted {
		return cmd
	}

	switch m.state {
	case usersStateCreate:
		if m.createSave {
			if m.app.Users.Exists(m.createUsername) {
				m.err = fmt.Errorf("username already exists")
				return nil
			}
			if _, err := m.app.Users.Create(m.createUsername, m.createSecret, auth.Role(m.createRole)); err != nil {
				m.err = err
				return nil
			}
		}
		m.form = nil
		m.state = usersStateList
		m.reloadList()
	case usersStateResetSecret:
		if m.pwSave && m.selected != nil {
			if err := m.app.Users.UpdateSecret(m.selected.Username, m.newSecret); err != nil {
				m.err = err
				return nil
			}
		}
		m.form = nil
		m.state = usersStateDetail
		m.list = newActionList(m.width, m.height)
	case usersStateSetRole:
		if m.roleSave && m.selected != nil {
			role := auth.Role(m.roleChoice)
			if !auth.ValidRole(role) {
				m.err = fmt.Errorf("invalid role %q", m.roleChoice)
				return nil
			}
			if err := m.app.Users.SetRole(m.selected.Username, role); err != nil {
				m.err = err
				return nil
			}
		}
		m.refreshSelected()
		m.form = nil
		m.state = usersStateDetail
		m.list = newActionList(m.width, m.height)
	case usersStateSetLock:
		if m.lockSave && m.selected != nil {
			if err := m.app.Users.SetLocked(m.selected.Username, m.lockValue); err != nil {
				m.err = err
				return nil
			}
		}
		m.refreshSelected()
		m.form = nil
		m.state = usersStateDetail
		m.list = newActionList(m.width, m.height)
	}
	return nil
}

func (m *usersModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Accounts error: %v\n\nPress Enter/Esc to go back.", m.err)
	}

	switch m.state {
	case usersStateList:
		m.list.Title = "Accounts"
		return m.list.View() + "\n(q to quit, enter to select)"
	case usersStateDetail:
		if m.selected == nil {
			return "No account selected\n\n(esc to go back)"
		}
		last := "never"
		if m.selected.LastLogin != nil {
			last = m.selected.LastLogin.Format("2006-01-02 15:04")
		}
		header := fmt.Sprintf("Account: %s (role %s)\n", m.selected.Username, m.selected.Role)
		meta := fmt.Sprintf("Locked: %v\nLast login: %s\nCreated: %s\n\n",
			m.selected.IsLocked, last, m.selected.CreatedAt.Format("2006-01-02"))
		m.list.Title = "Actions"
		return header + meta + m.list.View() + "\n(esc to go back)"
	default:
		return m.form.View() + "\n\n(esc to go back)"
	}
}

func (m *usersModel) reloadList() {
	users, err := m.app.Users.List()
	if err != nil {
		m.err = err
		return
	}

	items := make([]list.Item, 0, len(users)+1)
	items = append(items, userItem{title: "+ Create account", desc: "Add a new simulated account", kind: "create"})
	for _, u := range users {
		desc := fmt.Sprintf("role %s", u.Role)
		if u.IsLocked {
			desc += " (locked)"
		}
		items = append(items, userItem{username: u.Username, title: u.Username, desc: desc, kind: "user"})
	}

	m.list = list.New(items, list.NewDefaultDelegate(), m.width, m.height-2)
	m.list.SetShowStatusBar(false)
	m.list.SetFilteringEnabled(true)
	m.list.SetShowHelp(true)
	m.list.Title = "Accounts"
}

func newActionList(w, h int) list.Model {
	items := []list.Item{
		userItem{title: "Set role", desc: "user/admin/root/master/ctf", kind: "set_role"},
		userItem{title: "Lock / unlock", desc: "Toggle the account lock", kind: "set_lock"},
		userItem{title: "Reset password", desc: "Set a new secret", kind: "reset_secret"},
		userItem{title: "Back", desc: "Return to account list", kind: "back"},
	}
	l := list.New(items, list.NewDefaultDelegate(), w, h-8)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	return l
}

func roleOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("user", string(auth.RoleUser)),
		huh.NewOption("admin", string(auth.RoleAdmin)),
		huh.NewOption("root", string(auth.RoleRoot)),
		huh.NewOption("master", string(auth.RoleMaster)),
		huh.NewOption("ctf", string(auth.RoleCTF)),
	}
}

func (m *usersModel) startCreate() {
	m.state = usersStateCreate
	m.createUsername = ""
	m.createSecret = ""
	m.createRole = string(auth.RoleUser)
	m.createSave = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&m.createUsername).Validate(nonEmpty("username")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.createSecret).Validate(nonEmpty("password")),
			huh.NewSelect[string]().Title("Role").Options(roleOptions()...).Value(&m.createRole),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Create account?").Value(&m.createSave),
		),
	)
}

func (m *usersModel) startResetSecret() {
	m.state = usersStateResetSecret
	m.newSecret = ""
	m.pwConfirm = ""
	m.pwSave = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&m.newSecret).Validate(nonEmpty("password")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&m.pwConfirm).Validate(func(s string) error {
				if s != m.newSecret {
					return fmt.Errorf("passwords do not match")
				}
				return nil
			}),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Reset password?").Value(&m.pwSave),
		),
	)
}

func (m *usersModel) startSetRole() {
	m.state = usersStateSetRole
	m.roleChoice = string(m.selected.Role)
	m.roleSave = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Role").Options(roleOptions()...).Value(&m.roleChoice),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Save role?").Value(&m.roleSave),
		),
	)
}

func (m *usersModel) startSetLock() {
	m.state = usersStateSetLock
	m.lockValue = m.selected.IsLocked
	m.lockSave = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Account locked").Value(&m.lockValue),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Save lock state?").Value(&m.lockSave),
		),
	)
}

func (m *usersModel) back() {
	switch m.state {
	case usersStateList:
		m.Done = true
	case usersStateDetail:
		m.state = usersStateList
		m.selected = nil
		m.form = nil
		m.reloadList()
	default:
		m.state = usersStateDetail
		m.form = nil
		m.list = newActionList(m.width, m.height)
	}
}

func (m *usersModel) refreshSelected() {
	if m.selected == nil {
		return
	}
	if u, err := m.app.Users.Get(m.selected.Username); err == nil {
		m.selected = u
	}
}
