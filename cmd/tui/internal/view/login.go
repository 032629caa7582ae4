package view

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cajero/internal/session"
)

// LoginModel asks for credentials and runs session.Login. Typed values are
// kept when the login fails.
type LoginModel struct {
	CommonModel
	sessions *session.Service

	form       *huh.Form
	username   string
	submitting bool
	err        error
}

func NewLoginModel(sessions *session.Service) LoginModel {
	m := LoginModel{sessions: sessions}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Iniciar sesión" }

func (m LoginModel) ShortHelp() string {
	if m.submitting {
		return "Verificando..."
	}

	return "Enter: ingresar | Ctrl+C: salir"
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Usuario").
				Value(new(m.username)).
				Validate(notBlank("Ingresá tu usuario")),
			huh.NewInput().
				Key("password").
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Validate(notBlank("Ingresá tu contraseña")),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

type loginResultMsg struct {
	session *session.Session
	err     error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		m.err = nil
		s := msg.session

		return m, func() tea.Msg { return LoggedInMsg{Session: s} }
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.username = m.form.GetString("username")

	return m, m.loginCmd(m.username, m.form.GetString("password"))
}

func (m LoginModel) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.sessions.Login(context.Background(), session.Credentials{
			Username: username,
			Password: password,
		})

		return loginResultMsg{session: s, err: err}
	}
}

func (m LoginModel) View() string {
	body := m.form.View()
	if m.submitting {
		body = faintStyle.Render("Verificando credenciales...")
	}

	switch {
	case errors.Is(m.err, session.ErrInvalidCredentials):
		body += "\n\n" + errorStyle.Render("Usuario y contraseña son obligatorios.")
	case m.err != nil:
		body += "\n\n" + renderError(m.err)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		titleStyle.Render("Cajero") + "\n\n" + body,
	)
}

func notBlank(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}

		return nil
	}
}
