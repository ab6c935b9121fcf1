package confsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	payload, err := encodeEnvelope("instance-1", "rate-limit", 120, nil)
	require.NoError(t, err)

	sender, args, err := decodeEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, "instance-1", sender)
	require.Len(t, args, 3)

	var key string
	require.NoError(t, json.Unmarshal(args[0], &key))
	assert.Equal(t, "rate-limit", key)

	var value any
	require.NoError(t, json.Unmarshal(args[1], &value))
	assert.EqualValues(t, 120, value)

	var previous any
	require.NoError(t, json.Unmarshal(args[2], &previous))
	assert.Nil(t, previous)
}

func TestEnvelopeSingleArg(t *testing.T) {
	t.Parallel()

	payload, err := encodeEnvelope("instance-2", "stale-key")
	require.NoError(t, err)

	sender, args, err := decodeEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, "instance-2", sender)
	require.Len(t, args, 1)

	var key string
	require.NoError(t, json.Unmarshal(args[0], &key))
	assert.Equal(t, "stale-key", key)
}

func TestEnvelopeEncodeUnserializable(t *testing.T) {
	t.Parallel()

	_, err := encodeEnvelope("instance-3", "key", make(chan int))
	assert.ErrorIs(t, err, ErrValueNotSerializable)
}

func TestEnvelopeDecodeMalformed(t *testing.T) {
	t.Parallel()

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()

		_, _, err := decodeEnvelope([]byte("!!! definitely not base64 !!!"))
		assert.ErrorIs(t, err, ErrEnvelopeDecode)
	})

	t.Run("base64 of garbage", func(t *testing.T) {
		t.Parallel()

		_, _, err := decodeEnvelope([]byte("Z2FyYmFnZQ=="))
		assert.ErrorIs(t, err, ErrEnvelopeDecode)
	})
}
