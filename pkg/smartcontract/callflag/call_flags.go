// Package callflag contains a set of call permission flags used when one
// contract invokes another.
package callflag

// CallFlag represents a call flag.
type CallFlag byte

// Default flags.
const (
	ReadStates CallFlag = 1 << iota
	WriteStates
	AllowCall
	AllowNotify
	States            = ReadStates | WriteStates
	ReadOnly          = ReadStates | AllowCall
	All               = States | AllowCall | AllowNotify
	NoneFlag CallFlag = 0
)

// Has returns true if all the flags specified in cf are set in f.
func (f CallFlag) Has(cf CallFlag) bool {
	return f&cf == cf
}
