package status

import (
	"encoding/json"
	"fmt"
)

// Component is the tagged-union type satisfied by every decodable status
// component. It carries no behavior beyond identifying its wire "model"
// name, keeping dispatch in ParseComponent total rather than relying on
// open subclassing.
type Component interface {
	model() string
}

// UnknownComponentError is returned by ParseComponent when the wire
// object's "model" field does not match any known component. Callers
// should drop the offending component and log a warning rather than treat
// this as fatal.
type UnknownComponentError struct {
	Model string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("status: unknown component model %q", e.Model)
}

type wireComponent struct {
	Model string          `json:"model"`
	Data  json.RawMessage `json:"data"`
}

// ParseComponent decodes a single {"model": ..., "data": ...} wire object
// into its concrete Component. Unknown models fail with
// *UnknownComponentError.
func ParseComponent(raw []byte) (Component, error) {
	var wc wireComponent
	if err := json.Unmarshal(raw, &wc); err != nil {
		return nil, fmt.Errorf("status: decoding component envelope: %w", err)
	}
	return decodeComponent(wc.Model, wc.Data)
}

func decodeComponent(model string, data json.RawMessage) (Component, error) {
	switch model {
	case "Phone":
		var c Phone
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding Phone: %w", err)
		}
		return c, nil
	case "Hardware":
		var c Hardware
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding Hardware: %w", err)
		}
		return c, nil
	case "Sensor":
		var c Sensor
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding Sensor: %w", err)
		}
		return c, nil
	case "Recording":
		var c Recording
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding Recording: %w", err)
		}
		return c, nil
	case "NetworkDevice":
		var c NetworkDevice
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding NetworkDevice: %w", err)
		}
		return c, nil
	case "Template":
		var c Template
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("status: decoding Template: %w", err)
		}
		return c, nil
	default:
		return nil, &UnknownComponentError{Model: model}
	}
}

// Serialize re-encodes a Component back into its wire envelope. Used by
// tests to check that ParseComponent(Serialize(c)) reproduces c; the
// round-trip test covers every model except Template.
func Serialize(c Component) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireComponent{Model: c.model(), Data: data})
}
