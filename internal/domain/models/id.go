package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend record identifier. The backend sends it either as a JSON
// string or as a number; both decode to the same string form.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts "7", 7 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
