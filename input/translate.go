package input

import "github.com/CVALENDB/orbit-input-core/input/state"

// KeyTranslator maps a backend-native key value of type B onto the
// normalized key type K the engine tracks. The second return is false
// for native keys the translation does not cover; producers drop those
// instead of ingesting them.
type KeyTranslator[B any, K comparable] interface {
	TranslateKey(native B) (K, bool)
}

// KeyTranslatorFunc adapts a function to the KeyTranslator interface.
type KeyTranslatorFunc[B any, K comparable] func(native B) (K, bool)

// TranslateKey calls the underlying function.
func (f KeyTranslatorFunc[B, K]) TranslateKey(native B) (K, bool) {
	return f(native)
}

// StateTranslator maps a backend-native state value of type B onto the
// engine's two-valued PhysicalState. The second return is false for
// native states with no down/up meaning (key-repeat codes, axis data).
type StateTranslator[B any] interface {
	TranslateState(native B) (state.PhysicalState, bool)
}

// StateTranslatorFunc adapts a function to the StateTranslator interface.
type StateTranslatorFunc[B any] func(native B) (state.PhysicalState, bool)

// TranslateState calls the underlying function.
func (f StateTranslatorFunc[B]) TranslateState(native B) (state.PhysicalState, bool) {
	return f(native)
}
