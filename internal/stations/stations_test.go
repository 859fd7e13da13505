package stations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	list, err := Load()
	require.NoError(t, err)
	require.Len(t, list, 5)

	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
		assert.True(t, s.Umbrellas.Total >= s.Umbrellas.Available+s.Umbrellas.Borrowed+s.Umbrellas.Maintenance, s.Name)
	}
	assert.Equal(t, []string{"Main Gate", "Library Block", "Cafeteria", "Sports Ground", "Admin Block"}, names)
	assert.Equal(t, [2]float64{12.9406, 79.3211}, list[0].Coordinates)
}
