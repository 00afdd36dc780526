package objectsvc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sir_venger/chunkgate/internal/models"
)

func TestRouter_PickRoundRobin(t *testing.T) {
	r := NewRouter("http://a/", "http://b", " ", "http://a")
	require.Equal(t, []string{"http://a", "http://b"}, r.List())

	var got []string
	for i := 0; i < 4; i++ {
		gw, err := r.Pick()
		require.NoError(t, err)
		got = append(got, gw)
	}
	require.Equal(t, []string{"http://a", "http://b", "http://a", "http://b"}, got)

	r.Add("http://c")
	require.Len(t, r.List(), 3)

	r.Set(nil)
	_, err := r.Pick()
	require.ErrorIs(t, err, models.ErrNoGateway)
}
