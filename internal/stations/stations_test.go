package stations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	s, ok := table.Lookup("KNGX")
	require.True(t, ok)
	assert.Equal(t, Station{CRS: "KGX", FullName: "London Kings Cross"}, s)

	_, ok = table.Lookup("NOWHERE")
	assert.False(t, ok)
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, len(a), len(b))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`[1,2`))
	assert.Error(t, err)
}
