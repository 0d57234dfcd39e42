package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/CVALENDB/orbit-input-core/input"
	"github.com/CVALENDB/orbit-input-core/input/binding"
	"github.com/CVALENDB/orbit-input-core/input/state"
)

// frameInterval is the monitor's logical tick length.
const frameInterval = 50 * time.Millisecond

// holdDuration is how long a terminal key press counts as held.
// Terminals report presses only, never releases, so the monitor
// synthesizes the Up transition itself.
const holdDuration = 150 * time.Millisecond

// Monitor drives the engine from tcell key events and renders the
// query surface once per frame.
type Monitor struct {
	screen   tcell.Screen
	eng      *input.Engine[string]
	patterns *binding.Set[string]

	translate input.KeyTranslatorFunc[*tcell.EventKey, string]

	// releaseAt holds the synthetic release deadline per held key.
	releaseAt map[string]time.Time
}

func newMonitor(opts options, patterns *binding.Set[string]) (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Monitor{
		screen:    screen,
		eng:       input.New[string](input.WithCapacity(opts.Capacity)),
		patterns:  patterns,
		translate: translateKey,
		releaseAt: make(map[string]time.Time),
	}, nil
}

// Close restores the terminal.
func (m *Monitor) Close() {
	m.screen.Fini()
}

// Run executes the monitor loop until Ctrl+C.
func (m *Monitor) Run() error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go m.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyCtrlC {
					return nil
				}
				m.ingestPress(tev)
			case *tcell.EventResize:
				m.screen.Sync()
			}

		case now := <-ticker.C:
			m.releaseExpired(now)
			m.render()
			m.eng.AdvanceTick()
		}
	}
}

// ingestPress translates and ingests one terminal key press. A press
// of an already-held key refreshes its synthetic release deadline; the
// engine's edge idempotence keeps the repeat from re-firing
// just-pressed.
func (m *Monitor) ingestPress(ev *tcell.EventKey) {
	key, ok := m.translate.TranslateKey(ev)
	if !ok {
		return
	}
	when := ev.When()
	m.eng.Ingest(key, state.Down, when)
	m.releaseAt[key] = when.Add(holdDuration)
}

// releaseExpired synthesizes Up transitions for keys whose hold window
// has lapsed.
func (m *Monitor) releaseExpired(now time.Time) {
	for key, deadline := range m.releaseAt {
		if now.After(deadline) {
			m.eng.Ingest(key, state.Up, deadline)
			delete(m.releaseAt, key)
		}
	}
}

// translateKey maps a tcell key event onto the monitor's string keys.
// Rune keys map to themselves; special keys use tcell's names ("Up",
// "Left", "F1", ...).
func translateKey(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune()), true
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return name, true
	}
	return "", false
}

func (m *Monitor) render() {
	m.screen.Clear()

	styleTitle := tcell.StyleDefault.Bold(true)
	styleDim := tcell.StyleDefault.Dim(true)
	styleHit := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)

	q := m.eng.Temporal()
	st := m.eng.State()

	m.drawText(0, 0, styleTitle, "orbitmon — input engine monitor (Ctrl+C quits)")

	pressed := st.KeysPressed()
	sort.Strings(pressed)
	m.drawText(0, 2, tcell.StyleDefault, "pressed:   "+strings.Join(pressed, " "))

	last, hasLast := st.LastPressed()
	if !hasLast {
		last = "-"
	}
	m.drawText(0, 3, tcell.StyleDefault, "last:      "+last)

	m.drawText(0, 5, styleDim, fmt.Sprintf("events:    %d (cap %d)",
		m.eng.History().Len(), m.eng.History().Capacity()))
	m.drawText(0, 6, styleDim, fmt.Sprintf("idle:      %s",
		q.SinceLastEvent().Round(time.Millisecond)))
	m.drawText(0, 7, styleDim, fmt.Sprintf("speed:     %.2f events/s",
		q.AverageInputSpeed()))
	if key, ok := q.MostFrequentKey(); ok {
		m.drawText(0, 8, styleDim, fmt.Sprintf("favorite:  %s (%d presses)",
			key, q.TotalPresses(key)))
	}

	m.drawText(0, 10, styleTitle, "patterns")
	row := 11
	active := make(map[string]bool)
	for _, name := range m.patterns.Active(q) {
		active[name] = true
	}
	for _, name := range m.patterns.Names() {
		style := styleDim
		marker := "  "
		if active[name] {
			style = styleHit
			marker = "! "
		}
		m.drawText(0, row, style, marker+name)
		row++
	}

	m.screen.Show()
}

func (m *Monitor) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
