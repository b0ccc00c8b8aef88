package header

import "github.com/sipward/siproute/internal/types"

// Params is an alias of [types.Params], an ordered header parameter list.
type Params = types.Params

// Param is an alias of [types.Param].
type Param = types.Param

// ParamValue is an alias of [types.ParamValue].
type ParamValue = types.ParamValue

// NewParamValue returns a [ParamValue] holding the provided string.
func NewParamValue(val string) ParamValue { return types.NewParamValue(val) }
