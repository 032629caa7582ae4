package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/money"
	"github.com/MrJamesThe3rd/cajero/internal/workflow"
)

type cajaState int

const (
	cajaStateForm cajaState = iota
	cajaStateConfirmClose
)

// Drafts hold what the cashier typed so a failed submission can rebuild the
// form with the same values.
type openDraft struct {
	point  string
	name   string
	amount string
}

type movementDraft struct {
	register    string
	tipo        string
	amount      string
	description string
	method      string
}

type closeDraft struct {
	register string
	amount   string
	notes    string

	label    string
	expected decimal.Decimal
	counted  decimal.Decimal
}

// CajaModel renders the open / movements / close workflow.
type CajaModel struct {
	CommonModel
	cajas     *caja.Service
	catalog   *catalog.Service
	flow      *workflow.Workflow
	slowAfter time.Duration

	state   cajaState
	spinner spinner.Model
	points  []catalog.PointOfSale
	form    *huh.Form
	loading bool
	status  string
	err     error
	now     time.Time

	open     openDraft
	movement movementDraft
	closing  closeDraft
}

func NewCajaModel(cajas *caja.Service, catalogSvc *catalog.Service, slowAfter time.Duration) CajaModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return CajaModel{
		spinner:   s,
		cajas:     cajas,
		catalog:   catalogSvc,
		flow:      workflow.New(),
		slowAfter: slowAfter,
		loading:   true,
		movement:  movementDraft{tipo: string(caja.MovementIncome)},
	}
}

func (m CajaModel) Title() string { return "Caja" }

func (m CajaModel) ShortHelp() string {
	switch {
	case m.flow.Submitting():
		return "Enviando..."
	case m.state == cajaStateConfirmClose:
		return "Enter/y: confirmar cierre | n/Esc: volver al formulario"
	}

	return "F1-F3 / Ctrl+←→: pestañas | Ctrl+R: actualizar cajas | Esc: menú"
}

type cajaLoadedMsg struct {
	points     []catalog.PointOfSale
	pointsErr  error
	refreshErr error
}

type cajaOpenedMsg struct {
	register *caja.CashRegister
	err      error
}

type movementRecordedMsg struct {
	registerID string
	movement   *caja.Movement
	err        error
}

type cajaClosedMsg struct {
	closed *caja.CashRegister
	err    error
}

type staleTickMsg time.Time

func (m CajaModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CajaModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReadCtx()
		defer cancel()

		var msg cajaLoadedMsg
		msg.refreshErr = m.cajas.Refresh(ctx)
		msg.points, msg.pointsErr = m.catalog.PointsOfSale(ctx)

		return msg
	}
}

func (m CajaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case cajaLoadedMsg:
		m.loading = false
		m.err = errors.Join(msg.refreshErr, msg.pointsErr)

		if msg.pointsErr == nil {
			m.points = msg.points
		}

		m.form = m.buildForm()

		return m, tea.Batch(m.initForm(), expired(m.err))

	case spinner.TickMsg:
		if !m.flow.Submitting() {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case staleTickMsg:
		m.now = time.Time(msg)
		if m.flow.Submitting() {
			return m, staleTick()
		}

		return m, nil

	case cajaOpenedMsg:
		return m.handleOpened(msg)

	case movementRecordedMsg:
		return m.handleMovement(msg)

	case cajaClosedMsg:
		return m.handleClosed(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if next, cmd, handled := m.handleKey(keyMsg); handled {
			return next, cmd
		}
	}

	if m.state == cajaStateConfirmClose || m.flow.Submitting() || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.submitForm()
}

func (m CajaModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.flow.Submitting() {
		// Only leaving is refused; the request keeps running either way.
		return m, nil, msg.Type != tea.KeyCtrlC
	}

	if m.state == cajaStateConfirmClose {
		switch msg.String() {
		case "y", "enter":
			next, cmd := m.submitClose()
			return next, cmd, true
		case "n", "esc":
			m.state = cajaStateForm
			m.form = m.buildForm()

			return m, m.initForm(), true
		}

		return m, nil, true
	}

	openCount := len(m.cajas.OpenRegisters())

	switch msg.String() {
	case "esc":
		return m, Back, true
	case "ctrl+r":
		m.loading = true
		return m, m.loadCmd(), true
	case "f1":
		return m.switchTab(m.flow.Select(workflow.TabOpen, openCount))
	case "f2":
		return m.switchTab(m.flow.Select(workflow.TabMovements, openCount))
	case "f3":
		return m.switchTab(m.flow.Select(workflow.TabClose, openCount))
	case "ctrl+right":
		return m.switchTab(m.flow.Next(openCount))
	case "ctrl+left":
		return m.switchTab(m.flow.Prev(openCount))
	}

	return m, nil, false
}

func (m CajaModel) switchTab(changed bool) (tea.Model, tea.Cmd, bool) {
	if !changed {
		m.status = "Abrí una caja para habilitar movimientos y cierre."
		return m, nil, true
	}

	m.status = ""
	m.err = nil
	m.form = m.buildForm()

	return m, m.initForm(), true
}

func (m CajaModel) initForm() tea.Cmd {
	if m.form == nil {
		return nil
	}

	return m.form.Init()
}

func (m CajaModel) buildForm() *huh.Form {
	if !workflow.Enabled(m.flow.Tab(), len(m.cajas.OpenRegisters())) {
		return nil
	}

	switch m.flow.Tab() {
	case workflow.TabOpen:
		return m.buildOpenForm()
	case workflow.TabMovements:
		return m.buildMovementForm()
	case workflow.TabClose:
		return m.buildCloseForm()
	}

	return nil
}

func (m CajaModel) buildOpenForm() *huh.Form {
	if len(m.points) == 0 {
		return nil
	}

	points := make([]huh.Option[string], 0, len(m.points))
	for _, p := range m.points {
		points = append(points, huh.NewOption(p.Label(), p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("puntoDeVenta").
				Title("Punto de venta").
				Options(points...).
				Value(new(m.open.point)),
			huh.NewInput().
				Key("nombreCaja").
				Title("Nombre de la caja").
				Value(new(m.open.name)).
				Validate(notBlank("Ingresá un nombre para la caja")),
			huh.NewInput().
				Key("montoInicial").
				Title("Monto inicial").
				Placeholder("0,00").
				Value(new(m.open.amount)).
				Validate(optionalAmount),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CajaModel) buildMovementForm() *huh.Form {
	methods := []huh.Option[string]{huh.NewOption("Sin especificar", "")}
	for _, p := range caja.PaymentMethods {
		methods = append(methods, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("caja").
				Title("Caja").
				Options(m.registerOptions()...).
				Value(new(m.movement.register)),
			huh.NewSelect[string]().
				Key("tipo").
				Title("Tipo").
				Options(
					huh.NewOption("Ingreso", string(caja.MovementIncome)),
					huh.NewOption("Egreso", string(caja.MovementExpense)),
				).
				Value(new(m.movement.tipo)),
			huh.NewInput().
				Key("monto").
				Title("Monto").
				Placeholder("0,00").
				Value(new(m.movement.amount)).
				Validate(positiveAmount),
			huh.NewInput().
				Key("descripcion").
				Title("Descripción").
				Value(new(m.movement.description)).
				Validate(notBlank("Ingresá una descripción")),
			huh.NewSelect[string]().
				Key("metodoPago").
				Title("Método de pago").
				Options(methods...).
				Value(new(m.movement.method)),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CajaModel) buildCloseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("caja").
				Title("Caja a cerrar").
				Options(m.registerOptions()...).
				Value(new(m.closing.register)),
			huh.NewInput().
				Key("montoFinalReal").
				Title("Monto contado").
				Placeholder("0,00").
				Value(new(m.closing.amount)).
				Validate(optionalAmount),
			huh.NewText().
				Key("observaciones").
				Title("Observaciones").
				CharLimit(500).
				Value(new(m.closing.notes)),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m CajaModel) registerOptions() []huh.Option[string] {
	open := m.cajas.OpenRegisters()

	opts := make([]huh.Option[string], 0, len(open))
	for _, c := range open {
		label := fmt.Sprintf("%s · esperado %s", c.Label(), FormatAmount(c.ExpectedBalance()))
		opts = append(opts, huh.NewOption(label, c.ID))
	}

	return opts
}

func (m CajaModel) submitForm() (tea.Model, tea.Cmd) {
	switch m.flow.Tab() {
	case workflow.TabOpen:
		m.open = openDraft{
			point:  m.form.GetString("puntoDeVenta"),
			name:   m.form.GetString("nombreCaja"),
			amount: m.form.GetString("montoInicial"),
		}

		return m.submit(m.openCmd(m.open))

	case workflow.TabMovements:
		m.movement = movementDraft{
			register:    m.form.GetString("caja"),
			tipo:        m.form.GetString("tipo"),
			amount:      m.form.GetString("monto"),
			description: m.form.GetString("descripcion"),
			method:      m.form.GetString("metodoPago"),
		}

		return m.submit(m.movementCmd(m.movement))

	case workflow.TabClose:
		d := closeDraft{
			register: m.form.GetString("caja"),
			amount:   m.form.GetString("montoFinalReal"),
			notes:    m.form.GetString("observaciones"),
			counted:  money.Input(m.form.GetString("montoFinalReal")).OrZero(),
		}

		if c, ok := m.cajas.OpenRegister(d.register); ok {
			d.label = c.Label()
			d.expected = c.ExpectedBalance()
		}

		m.closing = d
		m.state = cajaStateConfirmClose

		return m, nil
	}

	return m, nil
}

func (m CajaModel) submitClose() (tea.Model, tea.Cmd) {
	m.state = cajaStateForm
	return m.submit(m.closeCmd(m.closing))
}

// submit starts cmd unless a submission is already pending.
func (m CajaModel) submit(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.flow.Begin() {
		return m, nil
	}

	m.err = nil
	m.status = ""
	m.now = time.Now()

	return m, tea.Batch(cmd, staleTick(), m.spinner.Tick)
}

func staleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return staleTickMsg(t) })
}

func (m CajaModel) openCmd(d openDraft) tea.Cmd {
	return func() tea.Msg {
		created, err := m.cajas.Open(context.Background(), caja.OpenParams{
			PuntoDeVenta: d.point,
			NombreCaja:   d.name,
			MontoInicial: money.Input(d.amount),
		})

		return cajaOpenedMsg{register: created, err: err}
	}
}

func (m CajaModel) movementCmd(d movementDraft) tea.Cmd {
	return func() tea.Msg {
		mv := caja.Movement{
			Tipo:        caja.MovementType(d.tipo),
			Monto:       money.Input(d.amount).OrZero(),
			Descripcion: d.description,
			MetodoPago:  caja.PaymentMethod(d.method),
		}

		recorded, err := m.cajas.RecordMovement(context.Background(), mv, d.register)

		return movementRecordedMsg{registerID: d.register, movement: recorded, err: err}
	}
}

func (m CajaModel) closeCmd(d closeDraft) tea.Cmd {
	return func() tea.Msg {
		closed, err := m.cajas.Close(context.Background(), caja.CloseParams{
			MontoFinalReal:      money.Input(d.amount),
			ObservacionesCierre: d.notes,
		}, d.register)

		return cajaClosedMsg{closed: closed, err: err}
	}
}

func (m CajaModel) handleOpened(msg cajaOpenedMsg) (tea.Model, tea.Cmd) {
	m.flow.End()

	if msg.err != nil {
		return m.failed(msg.err)
	}

	m.flow.OpenSucceeded()
	m.open = openDraft{}
	m.movement = movementDraft{register: msg.register.ID, tipo: string(caja.MovementIncome)}
	m.status = fmt.Sprintf("Caja abierta: %s con %s.", msg.register.Label(), FormatAmount(msg.register.MontoInicial))
	m.form = m.buildForm()

	return m, m.initForm()
}

func (m CajaModel) handleMovement(msg movementRecordedMsg) (tea.Model, tea.Cmd) {
	m.flow.End()

	if msg.err != nil {
		return m.failed(msg.err)
	}

	m.status = "Movimiento registrado."
	if c, ok := m.cajas.OpenRegister(msg.registerID); ok {
		m.status = fmt.Sprintf("Movimiento registrado. Saldo esperado en %s: %s.", c.Label(), FormatAmount(c.ExpectedBalance()))
	}

	m.movement = movementDraft{register: msg.registerID, tipo: m.movement.tipo}
	m.form = m.buildForm()

	return m, m.initForm()
}

func (m CajaModel) handleClosed(msg cajaClosedMsg) (tea.Model, tea.Cmd) {
	m.flow.End()

	if msg.err != nil {
		return m.failed(msg.err)
	}

	expected, counted := m.closing.expected, m.closing.counted
	if msg.closed != nil {
		if msg.closed.MontoFinalEsperado.Valid {
			expected = msg.closed.MontoFinalEsperado.Decimal
		}

		if msg.closed.MontoFinalReal.Valid {
			counted = msg.closed.MontoFinalReal.Decimal
		}
	}

	m.status = fmt.Sprintf("Caja %s cerrada. %s", m.closing.label, describeClose(expected, counted))
	m.closing = closeDraft{}
	m.form = m.buildForm()

	return m, m.initForm()
}

// failed keeps the draft and rebuilds the current form so nothing typed is lost.
func (m CajaModel) failed(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.form = m.buildForm()

	return m, tea.Batch(m.initForm(), expired(err))
}

func describeClose(expected, counted decimal.Decimal) string {
	d := caja.ComputeDifference(expected, counted)

	summary := fmt.Sprintf("Esperado %s, contado %s.", FormatAmount(expected), FormatAmount(counted))
	if d.Kind == caja.DifferenceExact {
		return summary + " Sin diferencia."
	}

	return fmt.Sprintf("%s %s de %s.", summary, d.Kind.Label(), FormatAmount(d.Amount.Abs()))
}

func (m CajaModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Cargando cajas...")
	}

	sections := []string{m.renderTabs()}

	switch {
	case m.state == cajaStateConfirmClose:
		sections = append(sections, m.renderConfirmClose())
	case m.flow.Submitting():
		sections = append(sections, m.spinner.View()+" "+faintStyle.Render("Enviando al servidor..."))
	case m.form != nil:
		sections = append(sections, m.form.View())
	case m.flow.Tab() == workflow.TabOpen:
		sections = append(sections, "No hay puntos de venta activos. Ctrl+R para reintentar.")
	default:
		sections = append(sections, "No hay cajas abiertas.")
	}

	if hint := m.staleHint(); hint != "" {
		sections = append(sections, errorStyle.Render(hint))
	}

	if m.status != "" {
		sections = append(sections, successStyle.Render(m.status))
	}

	if m.err != nil {
		sections = append(sections, renderError(m.err))
	}

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderOpenPanel()),
	)
}

func (m CajaModel) renderTabs() string {
	openCount := len(m.cajas.OpenRegisters())

	tabs := make([]string, 0, len(workflow.Tabs()))
	for i, t := range workflow.Tabs() {
		label := fmt.Sprintf("F%d %s", i+1, t.Title())

		switch {
		case t == m.flow.Tab():
			tabs = append(tabs, activeStyle("["+label+"]"))
		case !workflow.Enabled(t, openCount):
			tabs = append(tabs, faintStyle.Render(" "+label+" "))
		default:
			tabs = append(tabs, " "+label+" ")
		}
	}

	return lipgloss.NewStyle().PaddingBottom(1).Render(strings.Join(tabs, "  "))
}

func (m CajaModel) renderConfirmClose() string {
	d := m.closing

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(fmt.Sprintf(
			"Cerrar %s\n\n%s\n\n¿Confirmás el cierre? (y/n)",
			d.label,
			describeClose(d.expected, d.counted),
		))
}

func (m CajaModel) renderOpenPanel() string {
	open := m.cajas.OpenRegisters()
	if len(open) == 0 {
		return ""
	}

	lines := []string{titleStyle.Render("Cajas abiertas")}
	for _, c := range open {
		lines = append(lines, fmt.Sprintf("%s\n  esperado %s", c.Label(), FormatAmount(c.ExpectedBalance())))
	}

	return lipgloss.NewStyle().
		MarginLeft(4).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(strings.Join(lines, "\n"))
}

// staleHint warns once the oldest pending write has been waiting longer than
// the configured threshold.
func (m CajaModel) staleHint() string {
	pending := m.cajas.InFlight()
	if len(pending) == 0 || m.slowAfter <= 0 {
		return ""
	}

	elapsed := m.now.Sub(pending[0].Since)
	if elapsed < m.slowAfter {
		return ""
	}

	return fmt.Sprintf("El servidor no responde hace %s. La operación sigue en curso; no la repitas.", elapsed.Truncate(time.Second))
}

func optionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := money.Input(s).NonNegative(); err != nil {
		return amountError(err)
	}

	return nil
}

func positiveAmount(s string) error {
	d, err := money.Input(s).NonNegative()
	if err != nil {
		return amountError(err)
	}

	if !d.IsPositive() {
		return errors.New("el monto debe ser mayor a cero")
	}

	return nil
}

func amountError(err error) error {
	switch {
	case errors.Is(err, money.ErrEmpty):
		return errors.New("ingresá un monto")
	case errors.Is(err, money.ErrNegative):
		return errors.New("el monto no puede ser negativo")
	}

	return errors.New("monto inválido, usá por ejemplo 1.234,50")
}
