package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseInt decodes a JSON number or numeric string. Anything else, including
// null or an absent field, leaves it unset.
type LooseInt struct {
	Value int
	Set   bool
}

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	*n = LooseInt{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}

	n.Value = int(f)
	n.Set = true
	return nil
}

// ID returns the value as a record id, or nil when unset or not positive.
func (n LooseInt) ID() *int {
	if !n.Set || n.Value <= 0 {
		return nil
	}
	v := n.Value
	return &v
}
