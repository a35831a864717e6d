package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexBool accepts true/false, 0/1 and boolean-like strings on input and is a plain bool
// everywhere else. JSON null decodes to false.
type FlexBool bool

var truthyStrings = map[string]bool{"1": true, "true": true, "t": true, "yes": true, "y": true, "on": true}
var falsyStrings = map[string]bool{"0": true, "false": true, "f": true, "no": true, "n": true, "off": true, "": true}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v, err := ParseFlexBool(raw)
	if err != nil {
		return err
	}
	*b = FlexBool(v)
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// ParseFlexBool canonicalizes the representations clients send for a boolean.
func ParseFlexBool(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case float64:
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if truthyStrings[s] {
			return true, nil
		}
		if falsyStrings[s] {
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot interpret %v as a boolean", raw)
}
