package models

import (
	"encoding/json"
	"math"
)

// Stat is a statistic that may be undefined. Undefined is distinct from zero:
// a zero tracking error means two series track perfectly, an undefined one
// means there was nothing to measure. Aggregation must skip invalid values
// instead of folding them in as zeros.
type Stat struct {
	Value float64
	Valid bool
}

// DefinedStat returns a valid Stat. NaN and Inf inputs are demoted to
// undefined so they can never leak into serialized output unlabelled.
func DefinedStat(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{}
	}
	return Stat{Value: v, Valid: true}
}

// UndefinedStat returns the undefined marker.
func UndefinedStat() Stat {
	return Stat{}
}

// Float returns the value and whether it is defined.
func (s Stat) Float() (float64, bool) {
	return s.Value, s.Valid
}

// MarshalJSON encodes undefined statistics as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null as undefined.
func (s *Stat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = DefinedStat(v)
	return nil
}
