package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralstat/overdose-report/internal/model"
)

func TestLoadRegions(t *testing.T) {
	csv := strings.Join([]string{
		`State,Region`,
		`Vermont,Northeast`,
		`Ohio,Midwest`,
		`West Virginia,South`,
		`Wyoming,West`,
		`Atlantis,Oceanic`,
		`Ohio,South`,
		`,West`,
	}, "\n") + "\n"

	labels, err := LoadRegions(writeTempFile(t, "regions.csv", csv))
	require.NoError(t, err)
	require.Len(t, labels, 4)

	byState := make(map[string]model.Region)
	for _, l := range labels {
		byState[l.State] = l.Region
	}
	assert.Equal(t, model.Northeast, byState["Vermont"])
	// Duplicate state keeps the first occurrence.
	assert.Equal(t, model.Midwest, byState["Ohio"])
	assert.NotContains(t, byState, "Atlantis")
}

func TestLoadRegions_Empty(t *testing.T) {
	csv := "State,Region\nAtlantis,Oceanic\n"
	_, err := LoadRegions(writeTempFile(t, "regions.csv", csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid rows")
}
