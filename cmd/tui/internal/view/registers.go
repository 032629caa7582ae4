package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/record"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

type registersState int

const (
	registersStateBrowse registersState = iota
	registersStateTimeframe
	registersStateDetail
)

var estadoFilters = []caja.Status{"", caja.StatusOpen, caja.StatusClosed}

// RegistersModel lists every register of the company with estado and date
// filters, and shows one register with its movements.
type RegistersModel struct {
	CommonModel
	cajas    *caja.Service
	sessions *session.Service

	state  registersState
	table  table.Model
	picker TimeframePicker

	rows       []caja.CashRegister
	pagination record.Pagination
	page       int
	estadoIdx  int
	rangeLabel string
	filters    caja.Filters

	detail      *caja.CashRegister
	detailTable table.Model

	loading bool
	err     error
}

func NewRegistersModel(cajas *caja.Service, sessions *session.Service) RegistersModel {
	columns := []table.Column{
		{Title: "Apertura", Width: 17},
		{Title: "Caja", Width: 18},
		{Title: "Punto de venta", Width: 18},
		{Title: "Vendedor", Width: 16},
		{Title: "Estado", Width: 8},
		{Title: "Inicial", Width: 14},
		{Title: "Esperado", Width: 14},
		{Title: "Contado", Width: 14},
	}

	return RegistersModel{
		cajas:       cajas,
		sessions:    sessions,
		table:       newTable(columns, 15),
		detailTable: newTable(movementColumns(), 10),
		picker:      NewTimeframePicker(TimeframeThisMonth),
		page:        1,
		rangeLabel:  TimeframeAll.String(),
		loading:     true,
	}
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func movementColumns() []table.Column {
	return []table.Column{
		{Title: "Fecha", Width: 17},
		{Title: "Tipo", Width: 8},
		{Title: "Monto", Width: 14},
		{Title: "Método", Width: 18},
		{Title: "Descripción", Width: 36},
	}
}

func (m RegistersModel) Title() string { return "Historial de cajas" }

func (m RegistersModel) ShortHelp() string {
	switch m.state {
	case registersStateDetail:
		return "Esc: volver a la lista"
	case registersStateTimeframe:
		return "Enter: aplicar | Esc: cancelar"
	}

	return "Esc: menú | Enter: detalle | s: estado | d: período | n/p: página | r: actualizar"
}

func (m RegistersModel) Init() tea.Cmd {
	return m.loadCmd()
}

type registersLoadedMsg struct {
	result *caja.ListResult
	err    error
}

type registerDetailMsg struct {
	register *caja.CashRegister
	err      error
}

func (m RegistersModel) loadCmd() tea.Cmd {
	page, filters := m.page, m.filters

	return func() tea.Msg {
		sess, err := m.sessions.RequireSession()
		if err != nil {
			return registersLoadedMsg{err: err}
		}

		ctx, cancel := ReadCtx()
		defer cancel()

		result, err := m.cajas.ListOpen(ctx, sess.CompanyID(), page, filters)

		return registersLoadedMsg{result: result, err: err}
	}
}

func (m RegistersModel) detailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReadCtx()
		defer cancel()

		c, err := m.cajas.Get(ctx, id)

		return registerDetailMsg{register: c, err: err}
	}
}

func (m RegistersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registersLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err != nil {
			return m, expired(msg.err)
		}

		m.rows = msg.result.Cajas
		m.pagination = msg.result.Pagination
		m.refreshTable()

		return m, nil

	case registerDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, expired(msg.err)
		}

		m.err = nil
		m.detail = msg.register
		m.state = registersStateDetail
		m.refreshDetail()

		return m, nil

	case TimeframeSelectedMsg:
		m.state = registersStateBrowse
		m.rangeLabel = msg.Label
		m.filters.FechaDesde, m.filters.FechaHasta = nil, nil

		if !msg.All {
			m.filters.FechaDesde = new(msg.Start)
			m.filters.FechaHasta = new(msg.End)
		}

		return m.reload()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case registersStateTimeframe:
		return m.updateTimeframe(msg)
	case registersStateDetail:
		return m.updateDetail(msg)
	}

	return m.updateBrowse(msg)
}

func (m RegistersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m.reload()
		case "s":
			m.estadoIdx = (m.estadoIdx + 1) % len(estadoFilters)
			m.filters.Estado = estadoFilters[m.estadoIdx]

			return m.reload()
		case "d":
			m.state = registersStateTimeframe
			m.picker.Reset()

			return m, nil
		case "n":
			if m.pagination.HasNext() {
				m.page++
				return m.fetch()
			}

			return m, nil
		case "p":
			if m.pagination.HasPrev() {
				m.page--
				return m.fetch()
			}

			return m, nil
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.rows) {
				return m, nil
			}

			m.loading = true

			return m, m.detailCmd(m.rows[idx].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RegistersModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = registersStateBrowse
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m RegistersModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = registersStateBrowse
		m.detail = nil

		return m, nil
	}

	var cmd tea.Cmd
	m.detailTable, cmd = m.detailTable.Update(msg)

	return m, cmd
}

// reload goes back to the first page; filters changed.
func (m RegistersModel) reload() (tea.Model, tea.Cmd) {
	m.page = 1
	return m.fetch()
}

func (m RegistersModel) fetch() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.loadCmd()
}

func (m *RegistersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, c := range m.rows {
		counted := "-"
		if c.MontoFinalReal.Valid {
			counted = FormatAmount(c.MontoFinalReal.Decimal)
		}

		rows = append(rows, table.Row{
			FormatDateTime(c.FechaApertura),
			c.NombreCaja,
			c.PuntoDeVenta.Display(),
			c.VendedorAsignado.Display(),
			string(c.Estado),
			FormatAmount(c.MontoInicial),
			FormatAmount(c.ExpectedBalance()),
			counted,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *RegistersModel) refreshDetail() {
	rows := make([]table.Row, 0, len(m.detail.Transacciones))
	for _, mv := range m.detail.Transacciones {
		fecha := "-"
		if mv.Fecha != nil {
			fecha = FormatDateTime(*mv.Fecha)
		}

		rows = append(rows, table.Row{
			fecha,
			string(mv.Tipo),
			FormatAmount(mv.Monto),
			string(mv.MetodoPago),
			mv.Descripcion,
		})
	}

	m.detailTable.SetRows(rows)
	m.detailTable.SetCursor(0)
}

func (m RegistersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Cargando cajas...")
	}

	var content string

	switch m.state {
	case registersStateTimeframe:
		content = m.picker.View()
	case registersStateDetail:
		content = m.renderDetail()
	default:
		content = m.renderBrowse()
	}

	if m.err != nil {
		content += "\n\n" + renderError(m.err)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m RegistersModel) renderBrowse() string {
	estado := "Todas"
	if f := estadoFilters[m.estadoIdx]; f != "" {
		estado = string(f)
	}

	header := fmt.Sprintf(
		"Filtros: [s] Estado: %s | [d] Período: %s",
		activeStyle(estado),
		activeStyle(m.rangeLabel),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(pageSummary(m.pagination, len(m.rows))),
	)
}

func (m RegistersModel) renderDetail() string {
	c := m.detail

	lines := []string{
		titleStyle.Render(c.Label()),
		"",
		fmt.Sprintf("Estado: %s   Vendedor: %s", c.Estado, c.VendedorAsignado.Display()),
		fmt.Sprintf("Apertura: %s   Monto inicial: %s", FormatDateTime(c.FechaApertura), FormatAmount(c.MontoInicial)),
		fmt.Sprintf("Saldo esperado: %s", FormatAmount(c.ExpectedBalance())),
	}

	if !c.IsOpen() {
		closedAt := "-"
		if c.FechaCierre != nil {
			closedAt = FormatDateTime(*c.FechaCierre)
		}

		lines = append(lines, fmt.Sprintf("Cierre: %s por %s", closedAt, c.UsuarioCierre.Display()))

		if c.MontoFinalReal.Valid {
			lines = append(lines, describeClose(c.ExpectedBalance(), c.MontoFinalReal.Decimal))
		}

		if c.ObservacionesCierre != "" {
			lines = append(lines, "Observaciones: "+c.ObservacionesCierre)
		}
	}

	lines = append(lines, "", fmt.Sprintf("Movimientos (%d)", len(c.Transacciones)))

	return strings.Join(lines, "\n") + "\n" + m.detailTable.View()
}

func pageSummary(p record.Pagination, shown int) string {
	if p.TotalPages == 0 {
		return fmt.Sprintf("%d resultados", shown)
	}

	return fmt.Sprintf("Página %d de %d · %d resultados · [n] siguiente [p] anterior", p.Page, p.TotalPages, p.Total)
}
