package types

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sipward/siproute/internal/util"
)

// ParamValue is an optional parameter value. Its zero value is the
// no-value marker that renders a flag parameter like ";lr".
type ParamValue struct {
	val string
	has bool
}

// NewParamValue returns a [ParamValue] holding the provided string.
func NewParamValue(val string) ParamValue {
	return ParamValue{val: val, has: true}
}

// Get returns the value and a flag indicating whether the value is set.
func (v ParamValue) Get() (string, bool) { return v.val, v.has }

// IsZero reports whether the value is the no-value marker.
func (v ParamValue) IsZero() bool { return !v.has }

func (v ParamValue) String() string { return v.val }

// Format implements fmt.Formatter.
func (v ParamValue) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, v.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(v.String()))
		return
	default:
		type hideMethods ParamValue
		type ParamValue hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ParamValue(v))
		return
	}
}

// Equal reports whether the value equals the provided value,
// accepting ParamValue and *ParamValue.
func (v ParamValue) Equal(val any) bool {
	switch other := val.(type) {
	case ParamValue:
		return v == other
	case *ParamValue:
		return other != nil && v == *other
	default:
		return false
	}
}

// Param is a single key/value parameter. The key is kept verbatim as
// provided, lookups fold case.
type Param struct {
	Key   string
	Value ParamValue
}

// Params is an ordered parameter list. Duplicate keys are preserved in
// their original positions.
type Params []Param

// Last returns the value of the last parameter matching the key,
// compared case-insensitively, and a flag indicating whether any
// parameter matched.
func (prms Params) Last(key string) (ParamValue, bool) {
	for i := len(prms) - 1; i >= 0; i-- {
		if util.EqFold(prms[i].Key, key) {
			return prms[i].Value, true
		}
	}
	return ParamValue{}, false
}

// Has reports whether any parameter matches the key, compared
// case-insensitively.
func (prms Params) Has(key string) bool {
	_, ok := prms.Last(key)
	return ok
}

// Prepend returns a new list with the parameter placed before all
// existing parameters. The receiver is left unmodified.
func (prms Params) Prepend(key string, val ParamValue) Params {
	out := make(Params, 0, len(prms)+1)
	out = append(out, Param{Key: key, Value: val})
	return append(out, prms...)
}

// Append returns a new list with the parameter placed after all
// existing parameters. The receiver is left unmodified.
func (prms Params) Append(key string, val ParamValue) Params {
	out := make(Params, 0, len(prms)+1)
	out = append(out, prms...)
	return append(out, Param{Key: key, Value: val})
}

// Clone returns a copy of the parameter list.
func (prms Params) Clone() Params {
	return slices.Clone(prms)
}

// Equal reports whether the list equals the provided value, accepting
// Params and *Params. Order is significant, keys are compared
// case-insensitively and values verbatim.
func (prms Params) Equal(val any) bool {
	var other Params
	switch v := val.(type) {
	case Params:
		other = v
	case *Params:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(prms, other, func(a, b Param) bool {
		return util.EqFold(a.Key, b.Key) && a.Value == b.Value
	})
}
