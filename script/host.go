package script

import (
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/CVALENDB/orbit-input-core/input"
)

// Errors returned by host construction and execution.
var (
	// ErrNilEngine indicates a host created without an engine.
	ErrNilEngine = errors.New("script: nil engine")

	// ErrNilCodec indicates a codec missing its Parse or Format function.
	ErrNilCodec = errors.New("script: codec needs Parse and Format")

	// ErrClosed indicates use of a closed host.
	ErrClosed = errors.New("script: host is closed")
)

// Codec converts between the engine's key type and the strings Lua
// scripts use.
type Codec[K comparable] struct {
	// Parse converts a script-side key name to a key.
	Parse func(string) (K, error)
	// Format converts a key to its script-side name.
	Format func(K) string
}

// Host owns a Lua state with the engine's query surface bound as the
// global `input` table. Not goroutine-safe; drive it from the consumer
// goroutine.
type Host[K comparable] struct {
	L      *lua.LState
	eng    *input.Engine[K]
	codec  Codec[K]
	closed bool
}

// NewHost creates a Lua state, opens the base, table, string and math
// libraries, and registers the `input` module bound to eng.
func NewHost[K comparable](eng *input.Engine[K], codec Codec[K]) (*Host[K], error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	if codec.Parse == nil || codec.Format == nil {
		return nil, ErrNilCodec
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	h := &Host[K]{L: L, eng: eng, codec: codec}

	// Selective library loading; no io/os access for scripts.
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:        L.NewFunction(lib.open),
			NRet:      0,
			Protect:   true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("script: open %s: %w", lib.name, err)
		}
	}

	mod := L.SetFuncs(L.NewTable(), h.funcs())
	L.SetGlobal("input", mod)
	return h, nil
}

// Close releases the Lua state. The host is unusable afterwards.
func (h *Host[K]) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.L.Close()
}

// DoString executes a chunk of Lua source.
func (h *Host[K]) DoString(src string) error {
	if h.closed {
		return ErrClosed
	}
	return h.L.DoString(src)
}

// DoFile executes a Lua file.
func (h *Host[K]) DoFile(path string) error {
	if h.closed {
		return ErrClosed
	}
	return h.L.DoFile(path)
}

// EvalBool evaluates a Lua expression and returns its truthiness.
func (h *Host[K]) EvalBool(expr string) (bool, error) {
	if h.closed {
		return false, ErrClosed
	}
	if err := h.L.DoString("return (" + expr + ")"); err != nil {
		return false, err
	}
	v := h.L.Get(-1)
	h.L.Pop(1)
	return lua.LVAsBool(v), nil
}

func (h *Host[K]) funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		// Latched state.
		"is_pressed":       h.lIsPressed,
		"is_just_pressed":  h.lIsJustPressed,
		"is_released":      h.lIsReleased,
		"is_just_released": h.lIsJustReleased,
		"time_pressed":     h.lTimePressed,
		"active_combo":     h.lActiveCombo,
		"any_pressed":      h.lAnyPressed,
		"keys_pressed":     h.lKeysPressed,
		"last_pressed":     h.lLastPressed,

		// Temporal queries.
		"since_last_event":       h.lSinceLastEvent,
		"since_key_pressed":      h.lSinceKeyPressed,
		"delta_between":          h.lDeltaBetween,
		"double_tap":             h.lDoubleTap,
		"average_press_interval": h.lAveragePressInterval,
		"match_sequence":         h.lMatchSequence,
		"match_sequence_in_time": h.lMatchSequenceInTime,
		"simultaneous_combo":     h.lSimultaneousCombo,
		"occurred_recently":      h.lOccurredRecently,
		"count_recent":           h.lCountRecent,
		"total_presses":          h.lTotalPresses,
		"press_frequency":        h.lPressFrequency,
		"most_frequent_key":      h.lMostFrequentKey,
		"average_input_speed":    h.lAverageInputSpeed,
		"keys_in_last":           h.lKeysInLast,
		"history_len":            h.lHistoryLen,
	}
}

// checkKey parses the string argument at idx as a key.
func (h *Host[K]) checkKey(L *lua.LState, idx int) K {
	name := L.CheckString(idx)
	key, err := h.codec.Parse(name)
	if err != nil {
		L.ArgError(idx, err.Error())
	}
	return key
}

// checkKeys parses the table argument at idx as a key list.
func (h *Host[K]) checkKeys(L *lua.LState, idx int) []K {
	tbl := L.CheckTable(idx)
	keys := make([]K, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		v := tbl.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			L.ArgError(idx, fmt.Sprintf("key %d is not a string", i))
		}
		key, err := h.codec.Parse(string(s))
		if err != nil {
			L.ArgError(idx, err.Error())
		}
		keys = append(keys, key)
	}
	return keys
}

// checkMillis reads the integer argument at idx as milliseconds.
func (h *Host[K]) checkMillis(L *lua.LState, idx int) time.Duration {
	return time.Duration(L.CheckInt64(idx)) * time.Millisecond
}

func (h *Host[K]) keyList(L *lua.LState, keys []K) *lua.LTable {
	tbl := L.NewTable()
	for _, k := range keys {
		tbl.Append(lua.LString(h.codec.Format(k)))
	}
	return tbl
}

func pushMillis(L *lua.LState, d time.Duration, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(float64(d) / float64(time.Millisecond)))
	return 1
}

func (h *Host[K]) lIsPressed(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().IsPressed(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lIsJustPressed(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().IsJustPressed(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lIsReleased(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().IsReleased(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lIsJustReleased(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().IsJustReleased(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lTimePressed(L *lua.LState) int {
	d, ok := h.eng.State().TimePressed(h.checkKey(L, 1))
	return pushMillis(L, d, ok)
}

func (h *Host[K]) lActiveCombo(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().ActiveCombo(h.checkKeys(L, 1))))
	return 1
}

func (h *Host[K]) lAnyPressed(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.State().AnyPressed()))
	return 1
}

func (h *Host[K]) lKeysPressed(L *lua.LState) int {
	L.Push(h.keyList(L, h.eng.State().KeysPressed()))
	return 1
}

func (h *Host[K]) lLastPressed(L *lua.LState) int {
	key, ok := h.eng.State().LastPressed()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(h.codec.Format(key)))
	return 1
}

func (h *Host[K]) lSinceLastEvent(L *lua.LState) int {
	return pushMillis(L, h.eng.Temporal().SinceLastEvent(), true)
}

func (h *Host[K]) lSinceKeyPressed(L *lua.LState) int {
	d, ok := h.eng.Temporal().SinceKeyPressed(h.checkKey(L, 1))
	return pushMillis(L, d, ok)
}

func (h *Host[K]) lDeltaBetween(L *lua.LState) int {
	d, ok := h.eng.Temporal().DeltaBetween(h.checkKey(L, 1))
	return pushMillis(L, d, ok)
}

func (h *Host[K]) lDoubleTap(L *lua.LState) int {
	key := h.checkKey(L, 1)
	threshold := h.checkMillis(L, 2)
	L.Push(lua.LBool(h.eng.Temporal().IsDoubleTap(key, threshold)))
	return 1
}

func (h *Host[K]) lAveragePressInterval(L *lua.LState) int {
	d, ok := h.eng.Temporal().AveragePressInterval(h.checkKey(L, 1))
	return pushMillis(L, d, ok)
}

func (h *Host[K]) lMatchSequence(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.Temporal().MatchSequence(h.checkKeys(L, 1))))
	return 1
}

func (h *Host[K]) lMatchSequenceInTime(L *lua.LState) int {
	keys := h.checkKeys(L, 1)
	window := h.checkMillis(L, 2)
	L.Push(lua.LBool(h.eng.Temporal().MatchSequenceInTime(keys, window)))
	return 1
}

func (h *Host[K]) lSimultaneousCombo(L *lua.LState) int {
	keys := h.checkKeys(L, 1)
	tolerance := h.checkMillis(L, 2)
	L.Push(lua.LBool(h.eng.Temporal().SimultaneousCombo(keys, tolerance)))
	return 1
}

func (h *Host[K]) lOccurredRecently(L *lua.LState) int {
	key := h.checkKey(L, 1)
	within := L.CheckInt(2)
	L.Push(lua.LBool(h.eng.Temporal().OccurredRecently(key, within)))
	return 1
}

func (h *Host[K]) lCountRecent(L *lua.LState) int {
	key := h.checkKey(L, 1)
	within := L.CheckInt(2)
	L.Push(lua.LNumber(h.eng.Temporal().CountRecent(key, within)))
	return 1
}

func (h *Host[K]) lTotalPresses(L *lua.LState) int {
	L.Push(lua.LNumber(h.eng.Temporal().TotalPresses(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lPressFrequency(L *lua.LState) int {
	L.Push(lua.LNumber(h.eng.Temporal().PressFrequency(h.checkKey(L, 1))))
	return 1
}

func (h *Host[K]) lMostFrequentKey(L *lua.LState) int {
	key, ok := h.eng.Temporal().MostFrequentKey()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(h.codec.Format(key)))
	return 1
}

func (h *Host[K]) lAverageInputSpeed(L *lua.LState) int {
	L.Push(lua.LNumber(h.eng.Temporal().AverageInputSpeed()))
	return 1
}

func (h *Host[K]) lKeysInLast(L *lua.LState) int {
	within := h.checkMillis(L, 1)
	L.Push(h.keyList(L, h.eng.Temporal().KeysInLast(within)))
	return 1
}

func (h *Host[K]) lHistoryLen(L *lua.LState) int {
	L.Push(lua.LNumber(h.eng.History().Len()))
	return 1
}
