package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/record"
)

type catalogTab int

const (
	catalogTabProducts catalogTab = iota
	catalogTabTickets
)

// CatalogModel browses products (with live search) and sales tickets.
type CatalogModel struct {
	CommonModel
	catalog *catalog.Service

	tab       catalogTab
	searching bool
	search    textinput.Model
	picking   bool
	picker    TimeframePicker

	products     table.Model
	productsPage record.Pagination
	productPage  int
	productCount int

	tickets       table.Model
	ticketsPage   record.Pagination
	ticketPage    int
	ticketCount   int
	ticketFilters catalog.TicketFilters
	rangeLabel    string

	loading bool
	err     error
}

func NewCatalogModel(svc *catalog.Service) CatalogModel {
	si := textinput.New()
	si.Placeholder = "código o nombre"
	si.Prompt = "Buscar: "
	si.CharLimit = 60
	si.Width = 30

	products := newTable([]table.Column{
		{Title: "Código", Width: 15},
		{Title: "Producto", Width: 34},
		{Title: "Categoría", Width: 14},
		{Title: "Precio", Width: 14},
		{Title: "Stock", Width: 8},
	}, 15)

	tickets := newTable([]table.Column{
		{Title: "Fecha", Width: 17},
		{Title: "Número", Width: 16},
		{Title: "Punto de venta", Width: 18},
		{Title: "Método", Width: 18},
		{Title: "Estado", Width: 10},
		{Title: "Total", Width: 14},
	}, 15)

	return CatalogModel{
		catalog:     svc,
		search:      si,
		picker:      NewTimeframePicker(TimeframeToday),
		products:    products,
		tickets:     tickets,
		productPage: 1,
		ticketPage:  1,
		rangeLabel:  TimeframeAll.String(),
		loading:     true,
	}
}

func (m CatalogModel) Title() string { return "Catálogo" }

func (m CatalogModel) ShortHelp() string {
	switch {
	case m.searching:
		return "Escribí para buscar | Enter/Esc: terminar"
	case m.picking:
		return "Enter: aplicar | Esc: cancelar"
	case m.tab == catalogTabTickets:
		return "Esc: menú | Tab: productos | d: período | n/p: página"
	}

	return "Esc: menú | Tab: tickets | /: buscar | n/p: página"
}

type productsLoadedMsg struct {
	page *catalog.ProductPage
	err  error
}

type ticketsLoadedMsg struct {
	page *catalog.TicketPage
	err  error
}

func (m CatalogModel) Init() tea.Cmd {
	return m.productsCmd()
}

func (m CatalogModel) productsCmd() tea.Cmd {
	page, search := m.productPage, m.search.Value()

	return func() tea.Msg {
		ctx, cancel := ReadCtx()
		defer cancel()

		p, err := m.catalog.Products(ctx, page, search)

		return productsLoadedMsg{page: p, err: err}
	}
}

func (m CatalogModel) ticketsCmd() tea.Cmd {
	page, filters := m.ticketPage, m.ticketFilters

	return func() tea.Msg {
		ctx, cancel := ReadCtx()
		defer cancel()

		p, err := m.catalog.Tickets(ctx, page, filters)

		return ticketsLoadedMsg{page: p, err: err}
	}
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if errors.Is(msg.err, catalog.ErrSuperseded) {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err != nil {
			return m, expired(msg.err)
		}

		m.productsPage = msg.page.Pagination
		m.productCount = len(msg.page.Products)
		m.products.SetRows(productRows(msg.page.Products))
		m.products.SetCursor(0)

		return m, nil

	case ticketsLoadedMsg:
		if errors.Is(msg.err, catalog.ErrSuperseded) {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err != nil {
			return m, expired(msg.err)
		}

		m.ticketsPage = msg.page.Pagination
		m.ticketCount = len(msg.page.Tickets)
		m.tickets.SetRows(ticketRows(msg.page.Tickets))
		m.tickets.SetCursor(0)

		return m, nil

	case TimeframeSelectedMsg:
		m.picking = false
		m.rangeLabel = msg.Label
		m.ticketFilters.FechaDesde, m.ticketFilters.FechaHasta = nil, nil

		if !msg.All {
			m.ticketFilters.FechaDesde = new(msg.Start)
			m.ticketFilters.FechaHasta = new(msg.End)
		}

		m.ticketPage = 1
		m.loading = true

		return m, m.ticketsCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.products.SetHeight(max(msg.Height-12, 5))
		m.tickets.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch {
	case m.searching:
		return m.updateSearch(msg)
	case m.picking:
		return m.updatePicker(msg)
	}

	return m.updateBrowse(msg)
}

func (m CatalogModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
			m.search.Blur()

			return m, nil
		}
	}

	before := m.search.Value()

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if m.search.Value() == before {
		return m, cmd
	}

	// Every keystroke starts a new search; the previous one is cancelled.
	m.productPage = 1

	return m, tea.Batch(cmd, m.productsCmd())
}

func (m CatalogModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.picking = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m CatalogModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			return m.toggleTab()
		case "/":
			if m.tab == catalogTabProducts {
				m.searching = true
				cmd := m.search.Focus()

				return m, cmd
			}
		case "d":
			if m.tab == catalogTabTickets {
				m.picking = true
				m.picker.Reset()

				return m, nil
			}
		case "n":
			return m.turnPage(1)
		case "p":
			return m.turnPage(-1)
		}
	}

	var cmd tea.Cmd
	if m.tab == catalogTabTickets {
		m.tickets, cmd = m.tickets.Update(msg)
	} else {
		m.products, cmd = m.products.Update(msg)
	}

	return m, cmd
}

func (m CatalogModel) toggleTab() (tea.Model, tea.Cmd) {
	m.err = nil
	m.loading = true

	if m.tab == catalogTabProducts {
		m.tab = catalogTabTickets
		return m, m.ticketsCmd()
	}

	m.tab = catalogTabProducts

	return m, m.productsCmd()
}

func (m CatalogModel) turnPage(by int) (tea.Model, tea.Cmd) {
	if m.tab == catalogTabTickets {
		if (by > 0 && !m.ticketsPage.HasNext()) || (by < 0 && !m.ticketsPage.HasPrev()) {
			return m, nil
		}

		m.ticketPage += by
		m.loading = true

		return m, m.ticketsCmd()
	}

	if (by > 0 && !m.productsPage.HasNext()) || (by < 0 && !m.productsPage.HasPrev()) {
		return m, nil
	}

	m.productPage += by
	m.loading = true

	return m, m.productsCmd()
}

func productRows(products []catalog.Product) []table.Row {
	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			p.Codigo,
			p.Nombre,
			p.Categoria,
			FormatAmount(p.Precio),
			p.Stock.String(),
		})
	}

	return rows
}

func ticketRows(tickets []catalog.Ticket) []table.Row {
	rows := make([]table.Row, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, table.Row{
			FormatDateTime(t.Fecha),
			t.Numero,
			t.PuntoDeVenta.Display(),
			t.MetodoPago,
			t.Estado,
			FormatAmount(t.Total),
		})
	}

	return rows
}

func (m CatalogModel) View() string {
	if m.picking {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	tabs := fmt.Sprintf("%s  %s", tabLabel("Productos", m.tab == catalogTabProducts), tabLabel("Tickets", m.tab == catalogTabTickets))

	var header, body, footer string

	if m.tab == catalogTabTickets {
		header = fmt.Sprintf("Filtros: [d] Período: %s", activeStyle(m.rangeLabel))
		body = m.tickets.View()
		footer = pageSummary(m.ticketsPage, m.ticketCount)
	} else {
		header = m.search.View()
		body = m.products.View()
		footer = pageSummary(m.productsPage, m.productCount)
	}

	if m.loading {
		footer = "Cargando..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(tabs),
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(body),
		faintStyle.Render(footer),
	)

	if m.err != nil {
		content += "\n\n" + renderError(m.err)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func tabLabel(name string, active bool) string {
	if active {
		return activeStyle("[" + name + "]")
	}

	return " " + name + " "
}
