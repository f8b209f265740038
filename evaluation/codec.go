package evaluation

import (
	"math"
	"sort"

	"github.com/scttfrdmn/boptimize/bo/domain"
)

// paramCodec fixes the search space's parameters into a stable
// coordinate order (alphabetical by name, since SearchSpace.Parameters
// is an unordered map) and converts between named configuration maps
// and the flat x in R^n vectors the core engine consumes. Continuous
// parameters map straight through; integer parameters map through a
// discrete coordinate bounded by [Low, High]; discrete/categorical
// parameters map through a discrete coordinate indexing Values.
type paramCodec struct {
	names []string
	specs []ParameterSpec
}

func newParamCodec(space *SearchSpace) *paramCodec {
	names := make([]string, 0, len(space.Parameters))
	for name := range space.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]ParameterSpec, len(names))
	for i, name := range names {
		specs[i] = space.Parameters[name]
	}
	return &paramCodec{names: names, specs: specs}
}

// Domain builds the bo/domain.Domain this codec's coordinate layout
// implies: a box with a discrete mask set for every integer,
// discrete, or categorical parameter.
func (c *paramCodec) Domain() *domain.Domain {
	lb := make([]float64, len(c.names))
	ub := make([]float64, len(c.names))
	discrete := make([]bool, len(c.names))
	for i, spec := range c.specs {
		switch spec.Type {
		case ParamTypeContinuous:
			lb[i], ub[i] = spec.Low, spec.High
		case ParamTypeInteger:
			lb[i], ub[i] = spec.Low, spec.High
			discrete[i] = true
		case ParamTypeDiscrete, ParamTypeCategorical:
			lb[i], ub[i] = 0, float64(len(spec.Values)-1)
			discrete[i] = true
		}
	}
	return domain.New(lb, ub, discrete)
}

// Encode converts a named configuration into the engine's coordinate
// vector. A missing key encodes as the coordinate's zero value.
func (c *paramCodec) Encode(config map[string]interface{}) []float64 {
	x := make([]float64, len(c.names))
	for i, name := range c.names {
		v, ok := config[name]
		if !ok {
			continue
		}
		spec := c.specs[i]
		switch spec.Type {
		case ParamTypeContinuous, ParamTypeInteger:
			x[i] = toFloat64(v)
		case ParamTypeDiscrete, ParamTypeCategorical:
			x[i] = float64(indexOfValue(spec.Values, v))
		}
	}
	return x
}

// Decode converts the engine's coordinate vector back into a named
// configuration, restoring each parameter's declared Go type (float64,
// int, or the original discrete/categorical value).
func (c *paramCodec) Decode(x []float64) map[string]interface{} {
	config := make(map[string]interface{}, len(c.names))
	for i, name := range c.names {
		spec := c.specs[i]
		switch spec.Type {
		case ParamTypeContinuous:
			config[name] = x[i]
		case ParamTypeInteger:
			config[name] = int(math.Round(x[i]))
		case ParamTypeDiscrete, ParamTypeCategorical:
			idx := int(math.Round(x[i]))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(spec.Values) {
				idx = len(spec.Values) - 1
			}
			config[name] = spec.Values[idx]
		}
	}
	return config
}

func indexOfValue(values []interface{}, v interface{}) int {
	for i, val := range values {
		if val == v {
			return i
		}
	}
	return 0
}
