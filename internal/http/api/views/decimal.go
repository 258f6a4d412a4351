package views

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Decimal accepts a JSON number or string and keeps its textual form.
type Decimal string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("price must be a number or numeric string")
	}
	*d = Decimal(n.String())
	return nil
}

// String returns the raw text.
func (d Decimal) String() string {
	return string(d)
}
