package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"lsmkv/value"
)

func TestRecordRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		payload string
		deleted bool
	}{
		{"simple put", "k1", "v1", false},
		{"tombstone", "k1", "", true},
		{"empty payload live", "k2", "", false},
		{"unicode key and value", "キー", "値", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := value.New(c.payload, c.deleted)
			frame := Encode(c.key, v)
			require.Equal(t, Len(c.key, v), len(frame))

			gotKey, gotVal, n, err := DecodeFrom(bytes.NewReader(frame))
			require.NoError(t, err)
			require.Equal(t, c.key, gotKey)
			require.Equal(t, v, gotVal)
			require.Equal(t, len(frame), n)
		})
	}
}

func TestDecodeFromConcatenatedFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Encode("a", value.New("1", false)))
	buf.Write(Encode("b", value.New("", true)))
	buf.Write(Encode("c", value.New("3", false)))

	r := bytes.NewReader(buf.Bytes())

	k, v, _, err := DecodeFrom(r)
	require.NoError(t, err)
	require.Equal(t, "a", k)
	require.Equal(t, value.New("1", false), v)

	k, v, _, err = DecodeFrom(r)
	require.NoError(t, err)
	require.Equal(t, "b", k)
	require.True(t, v.IsDeleted())

	k, v, _, err = DecodeFrom(r)
	require.NoError(t, err)
	require.Equal(t, "c", k)
	require.Equal(t, value.New("3", false), v)

	_, _, _, err = DecodeFrom(r)
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeFromEmptyStreamIsCleanEOF(t *testing.T) {
	_, _, _, err := DecodeFrom(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeFromTornWriteIsConversionError(t *testing.T) {
	frame := Encode("k1", value.New("value1", false))
	torn := frame[:len(frame)-3] // chop off the trailing bytes mid-value

	_, _, _, err := DecodeFrom(bytes.NewReader(torn))
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}
