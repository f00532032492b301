package analysis

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a computed value that may be undefined (empty input, zero
// variance, too few observations). Undefined metrics serialise as null.
type Metric struct {
	Value   float64
	Defined bool
}

// defined wraps v; non-finite results are reported as undefined.
func defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{Value: v, Defined: true}
}

// Float returns the value and whether it is defined.
func (m Metric) Float() (float64, bool) { return m.Value, m.Defined }

func (m Metric) String() string {
	if !m.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(m.Value, 'g', 4, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = defined(v)
	return nil
}

func (m Metric) MarshalYAML() (any, error) {
	if !m.Defined {
		return nil, nil
	}
	return m.Value, nil
}
