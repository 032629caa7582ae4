// Package workflow is the three-tab cash-register screen as a state machine:
// open a register, record movements, close it.
package workflow

type Tab int

const (
	TabOpen Tab = iota
	TabMovements
	TabClose
)

var tabs = []Tab{TabOpen, TabMovements, TabClose}

func Tabs() []Tab {
	return tabs
}

func (t Tab) String() string {
	switch t {
	case TabOpen:
		return "abrir"
	case TabMovements:
		return "movimientos"
	case TabClose:
		return "cerrar"
	}

	return "unknown"
}

func (t Tab) Title() string {
	switch t {
	case TabOpen:
		return "Abrir caja"
	case TabMovements:
		return "Movimientos"
	case TabClose:
		return "Cerrar caja"
	}

	return t.String()
}

// Enabled reports whether tab can be shown. Movements and close need at
// least one open register.
func Enabled(tab Tab, openCount int) bool {
	if tab == TabOpen {
		return true
	}

	return openCount > 0
}

// Workflow tracks the selected tab and whether a submission is pending.
// It does not remember whether registers are open; callers pass the current
// count every time.
type Workflow struct {
	tab        Tab
	submitting bool
}

func New() *Workflow {
	return &Workflow{tab: TabOpen}
}

func (w *Workflow) Tab() Tab {
	return w.tab
}

// Select switches to tab unless it is disabled or a submission is pending.
func (w *Workflow) Select(tab Tab, openCount int) bool {
	if w.submitting || !Enabled(tab, openCount) {
		return false
	}

	w.tab = tab

	return true
}

// Next moves to the following enabled tab, wrapping around.
func (w *Workflow) Next(openCount int) bool {
	return w.step(1, openCount)
}

func (w *Workflow) Prev(openCount int) bool {
	return w.step(len(tabs)-1, openCount)
}

func (w *Workflow) step(by, openCount int) bool {
	for i := 1; i < len(tabs); i++ {
		candidate := tabs[(int(w.tab)+by*i)%len(tabs)]
		if Enabled(candidate, openCount) {
			return w.Select(candidate, openCount)
		}
	}

	return false
}

// OpenSucceeded moves to the movements tab after a register was opened.
func (w *Workflow) OpenSucceeded() {
	w.tab = TabMovements
}

// Begin marks a submission as pending. It returns false if one already is.
func (w *Workflow) Begin() bool {
	if w.submitting {
		return false
	}

	w.submitting = true

	return true
}

func (w *Workflow) End() {
	w.submitting = false
}

func (w *Workflow) Submitting() bool {
	return w.submitting
}
