package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, typ := range []string{"", "json", "msgpack"} {
		s, err := New(typ)
		require.NoError(t, err, typ)
		assert.NotNil(t, s)
	}

	_, err := New("protobuf")
	assert.ErrorIs(t, err, ErrUnsupportedSerializer)
}

func TestRoundTrip(t *testing.T) {
	type payload struct {
		TenantID int64  `json:"tenant_id" msgpack:"tenant_id"`
		ShardID  string `json:"shard_id" msgpack:"shard_id"`
	}

	for _, typ := range []string{"json", "msgpack"} {
		t.Run(typ, func(t *testing.T) {
			s, err := New(typ)
			require.NoError(t, err)

			want := payload{TenantID: 42, ShardID: "s2"}
			data, err := s.Marshal(want)
			require.NoError(t, err)

			var got payload
			require.NoError(t, s.Unmarshal(data, &got))
			assert.Equal(t, want, got)
		})
	}
}
