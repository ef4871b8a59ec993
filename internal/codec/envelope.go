package codec

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
)

// Envelope is what the host hands over at launch: a scene identifier and the embedded state.
type Envelope struct {
	Scene string
	State []byte
}

// ParseEnvelope extracts the scene and the inner state from a launch envelope, ignoring every other key.
// The state may be embedded as a JSON string or as an object.
func ParseEnvelope(envelope []byte) (Envelope, error) {
	if len(bytes.TrimSpace(envelope)) == 0 {
		return Envelope{}, nil
	}

	if !gjson.ValidBytes(envelope) {
		return Envelope{}, fmt.Errorf("%w: launch envelope is not valid JSON", apperror.ErrMalformedSnapshot)
	}

	root := gjson.ParseBytes(envelope)
	if !root.IsObject() {
		return Envelope{}, fmt.Errorf("%w: launch envelope is not an object", apperror.ErrMalformedSnapshot)
	}

	parsed := Envelope{Scene: root.Get("scene").String()}

	switch state := root.Get("state"); state.Type {
	case gjson.String:
		parsed.State = []byte(state.Str)
	case gjson.JSON:
		parsed.State = []byte(state.Raw)
	case gjson.Null:
	default:
		if state.Exists() {
			return Envelope{}, fmt.Errorf("%w: unexpected state type %s", apperror.ErrMalformedSnapshot, state.Type)
		}
	}

	return parsed, nil
}
