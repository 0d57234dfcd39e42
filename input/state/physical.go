package state

// PhysicalState is the raw two-valued signal reported by a producer for
// a single key: the key is either up or down. Translation layers map
// native backend states onto these two values before feeding the engine.
type PhysicalState uint8

const (
	// Up indicates the key is not depressed.
	Up PhysicalState = iota
	// Down indicates the key is depressed.
	Down
)

// String returns a string representation of the physical state.
func (s PhysicalState) String() string {
	switch s {
	case Down:
		return "down"
	default:
		return "up"
	}
}
