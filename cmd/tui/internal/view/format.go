package view

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cajero/internal/api"
	"github.com/MrJamesThe3rd/cajero/internal/money"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

// readTimeout bounds list and detail fetches. Writes are bounded only by the
// HTTP client's own timeout.
const readTimeout = 15 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

func FormatAmount(d decimal.Decimal) string {
	return money.Format(d)
}

// FormatDate formats a time.Time into DD/MM/YYYY.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("02/01/2006")
}

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("02/01/2006 15:04")
}

// ReadCtx returns a context with a standard timeout for read requests.
func ReadCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), readTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func renderError(err error) string {
	if err == nil {
		return ""
	}

	return errorStyle.Render("Error: " + api.Message(err))
}

// expired turns a missing session into a redirect to the login screen.
func expired(err error) tea.Cmd {
	if !errors.Is(err, session.ErrNotAuthenticated) {
		return nil
	}

	return func() tea.Msg { return SessionExpiredMsg{} }
}
