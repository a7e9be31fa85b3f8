package ledgerapi

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is registered under the same name as Connect's built-in JSON
// codec, so requests use the "application/json" content type.
const CodecName = "json"

var _ connect.Codec = JSONCodec{}

// JSONCodec marshals plain Go message structs with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
