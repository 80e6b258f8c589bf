package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		deleted bool
	}{
		{"live with payload", "hello world", false},
		{"empty live payload", "", false},
		{"tombstone", "", true},
		{"unicode payload", "こんにちは", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := New(c.payload, c.deleted)
			got, err := FromBytes(v.ToBytes())
			require.NoError(t, err)
			require.Equal(t, v, got)
		})
	}
}

func TestValueByteLen(t *testing.T) {
	v := New("value", false)
	require.Equal(t, 14, v.ByteLen()) // 8 + 5 + 1
	require.Len(t, v.ToBytes(), v.ByteLen())
}

func TestValueToBytesLayout(t *testing.T) {
	t.Run("deleted true", func(t *testing.T) {
		got := New("value", true).ToBytes()
		want := []byte{
			0, 0, 0, 0, 0, 0, 0, 6, // value_len = 5 + 1
			'v', 'a', 'l', 'u', 'e',
			1,
		}
		require.Equal(t, want, got)
	})

	t.Run("deleted false", func(t *testing.T) {
		got := New("value", false).ToBytes()
		want := []byte{
			0, 0, 0, 0, 0, 0, 0, 6,
			'v', 'a', 'l', 'u', 'e',
			0,
		}
		require.Equal(t, want, got)
	})
}

func TestValueFromBytesInvalidTombstone(t *testing.T) {
	bad := []byte{0, 0, 0, 0, 0, 0, 0, 5, 't', 'e', 's', 't', 2}
	_, err := FromBytes(bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tombstone")
}
