package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cajero/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cajero/internal/api"
	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/config"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

type services struct {
	sessions *session.Service
	cajas    *caja.Service
	catalog  *catalog.Service
	cfg      *config.Config
}

type model struct {
	services

	currentView View
	width       int
	height      int
	notice      string

	loginView     view.LoginModel
	cajaView      view.CajaModel
	registersView view.RegistersModel
	catalogView   view.CatalogModel
}

type View int

const (
	ViewLogin     View = 0
	ViewMenu      View = 1
	ViewCaja      View = 2
	ViewRegisters View = 3
	ViewCatalog   View = 4
)

func initialModel(svc services) model {
	m := model{
		services:    svc,
		currentView: ViewMenu,
		loginView:   view.NewLoginModel(svc.sessions),
	}

	if !svc.sessions.IsAuthenticated() {
		m.currentView = ViewLogin
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case view.LoggedInMsg:
		slog.Info("logged in", "user", msg.Session.User.Username, "company", msg.Session.CompanyID())
		m.notice = ""
		m.currentView = ViewMenu

		return m, nil

	case view.SessionExpiredMsg:
		slog.Warn("session missing at a protected action, routing to login")
		m.sessions.Logout(context.Background())

		return m.toLogin("Tu sesión no es válida. Ingresá de nuevo.")

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewCaja:
		var newModel tea.Model
		newModel, cmd = m.cajaView.Update(msg)
		m.cajaView = newModel.(view.CajaModel)
	case ViewRegisters:
		var newModel tea.Model
		newModel, cmd = m.registersView.Update(msg)
		m.registersView = newModel.(view.RegistersModel)
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewCaja
		m.cajaView = view.NewCajaModel(m.cajas, m.catalog, m.cfg.App.SlowRequestThreshold)

		return m, m.cajaView.Init()
	case "2":
		m.currentView = ViewRegisters
		m.registersView = view.NewRegistersModel(m.cajas, m.sessions)

		return m, m.registersView.Init()
	case "3":
		m.currentView = ViewCatalog
		m.catalogView = view.NewCatalogModel(m.catalog)

		return m, m.catalogView.Init()
	case "4":
		m.sessions.Logout(context.Background())
		slog.Info("logged out")

		return m.toLogin("Sesión cerrada.")
	}

	return m, nil
}

func (m model) toLogin(notice string) (tea.Model, tea.Cmd) {
	m.notice = notice
	m.currentView = ViewLogin
	m.loginView = view.NewLoginModel(m.sessions)

	return m, m.loginView.Init()
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		out := m.loginView.View()
		if m.notice != "" {
			out = lipgloss.NewStyle().Padding(1, 2, 0).Faint(true).Render(m.notice) + "\n" + out
		}

		return out
	case ViewMenu:
		return m.menuView()
	case ViewCaja:
		return m.withHelp(m.cajaView)
	case ViewRegisters:
		return m.withHelp(m.registersView)
	case ViewCatalog:
		return m.withHelp(m.catalogView)
	}

	return "Vista desconocida"
}

func (m model) withHelp(v view.View) string {
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title())

	return title + "\n" + v.View() + "\n" + help
}

func (m model) menuView() string {
	header := m.cfg.App.Name
	if s, ok := m.sessions.Current(); ok {
		header = fmt.Sprintf("%s · %s · %s", m.cfg.App.Name, s.User.DisplayName(), s.Company.NombreEmpresa)
	}

	open := ""
	if n := len(m.cajas.OpenRegisters()); n > 0 {
		open = fmt.Sprintf("\nCajas abiertas: %d\n", n)
	}

	return lipgloss.NewStyle().Padding(2).Render(
		header + "\n" + open + "\n" +
			"1. Caja (abrir, movimientos, cerrar)\n" +
			"2. Historial de cajas\n" +
			"3. Catálogo y tickets\n" +
			"4. Cerrar sesión\n\n" +
			"q. Salir",
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.App.LogFile, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	client, err := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		slog.Error("failed to create api client", "error", err)
		os.Exit(1)
	}

	sessions := session.NewService(ctx, client, store)
	client.SetTokenSource(sessions)

	cajas := caja.NewService(ctx, client, sessions, store, caja.WithPageSize(cfg.App.PageSize))
	sessions.OnChange(cajas.Reset)

	svc := services{
		sessions: sessions,
		cajas:    cajas,
		catalog:  catalog.NewService(client, sessions, cfg.App.PageSize),
		cfg:      cfg,
	}

	p := tea.NewProgram(initialModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

// setupLogging sends slog output to the configured file; the terminal
// belongs to the UI.
func setupLogging(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))

	return f, nil
}
