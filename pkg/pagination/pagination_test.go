package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 4, 10, 30, 0, 123456789, time.FixedZone("BRT", -3*3600))
	encoded := EncodeCursor(Cursor{CreatedAt: at, ID: 42})

	decoded, err := ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.CreatedAt.Equal(at))
	assert.Equal(t, time.UTC, decoded.CreatedAt.Location())
	assert.Equal(t, uint(42), decoded.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	cursor, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	for _, raw := range []string{"%%%", "bm9waXBl", "MjAyNi0wMS0wMVQwMDowMDowMFp8MA"} {
		_, err := ParseCursor(raw)
		assert.Error(t, err, raw)
	}
}
