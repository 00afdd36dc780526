package gatewayhttp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sir_venger/chunkgate/internal/models"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		raw  string
		want models.ByteRange
	}{
		{"bytes=120-140", models.ByteRange{Start: 120, End: 140}},
		{"bytes=0-0", models.ByteRange{Start: 0, End: 0}},
		{"bytes=100-", models.ByteRange{Start: 100, End: 149}},
		{"bytes=100-1000", models.ByteRange{Start: 100, End: 149}},
		{" bytes= 10 - 20 ", models.ByteRange{Start: 10, End: 20}},
	}
	for _, tc := range cases {
		got, err := parseRange(tc.raw, 150)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseRange_Rejects(t *testing.T) {
	for _, raw := range []string{
		"bytes=150-160",
		"bytes=200-",
		"bytes=20-10",
		"bytes=0-1,5-6",
		"bytes=-10",
		"bytes=abc-",
		"bytes=1-x",
		"items=0-1",
		"bytes=",
	} {
		_, err := parseRange(raw, 150)
		require.ErrorIs(t, err, models.ErrRangeNotSatisfiable, raw)
	}

	_, err := parseRange("bytes=0-", 0)
	require.ErrorIs(t, err, models.ErrRangeNotSatisfiable)
}
