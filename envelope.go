package confsync

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// envelope is the unit exchanged over the broadcast transport. Sender
// carries the originating instance identity so receivers can discard
// their own echoes. Args is a JSON-encoded argument array: a set
// envelope carries [key, newValue, previousValue], a clear envelope
// carries [key].
type envelope struct {
	Sender string `msgpack:"sender"`
	Args   []byte `msgpack:"args"`
}

// encodeEnvelope packs sender and arguments with msgpack and wraps the
// result in base64 so the payload crosses any text-safe transport.
func encodeEnvelope(sender string, args ...any) ([]byte, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Join(ErrValueNotSerializable, err)
	}

	packed, err := msgpack.Marshal(envelope{Sender: sender, Args: rawArgs})
	if err != nil {
		return nil, errors.Join(ErrValueNotSerializable, err)
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(packed)))
	base64.StdEncoding.Encode(encoded, packed)
	return encoded, nil
}

// decodeEnvelope reverses encodeEnvelope and unpacks the argument array.
func decodeEnvelope(payload []byte) (sender string, args []json.RawMessage, err error) {
	packed := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(packed, payload)
	if err != nil {
		return "", nil, errors.Join(ErrEnvelopeDecode, err)
	}

	var env envelope
	if err := msgpack.Unmarshal(packed[:n], &env); err != nil {
		return "", nil, errors.Join(ErrEnvelopeDecode, err)
	}

	if len(env.Args) > 0 {
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return "", nil, errors.Join(ErrEnvelopeDecode, err)
		}
	}

	return env.Sender, args, nil
}
