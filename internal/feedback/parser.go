package feedback

import (
	"encoding/json"
	"math"
	"strconv"
)

// ParseScore normalizes a heterogeneously-encoded response value into a
// numeric score. Historical rows store plain numeric strings, JSON-wrapped
// {"score": n} objects, and raw numbers depending on which code path wrote
// them; all three must parse without erroring. Returns ok=false for anything
// non-numeric, including NaN.
func ParseScore(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return checkNaN(v)
	case float32:
		return checkNaN(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return checkNaN(f)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return checkNaN(f)
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return 0, false
		}
		switch d := decoded.(type) {
		case float64:
			return checkNaN(d)
		case map[string]any:
			return scoreField(d)
		}
		return 0, false
	case map[string]any:
		return scoreField(v)
	}
	return 0, false
}

func scoreField(obj map[string]any) (float64, bool) {
	s, ok := obj["score"]
	if !ok {
		return 0, false
	}
	switch f := s.(type) {
	case float64:
		return checkNaN(f)
	case json.Number:
		n, err := f.Float64()
		if err != nil {
			return 0, false
		}
		return checkNaN(n)
	}
	return 0, false
}

func checkNaN(f float64) (float64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Round2 rounds to two decimal places, the precision every aggregate
// reports.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
