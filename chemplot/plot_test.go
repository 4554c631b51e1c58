package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "ladder.png")
	err := LadderPlot([]float64{0, 0.5, 1}, []float64{300, 367, 450}, "Test ladder", name)
	require.NoError(Te, err)
	fi, err := os.Stat(name)
	require.NoError(Te, err)
	assert.Greater(Te, fi.Size(), int64(0))
}

func TestLadderPlotBadData(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "ladder.png")
	assert.ErrorIs(Te, LadderPlot(nil, nil, "", name), ErrData)
	assert.ErrorIs(Te, LadderPlot([]float64{0, 1}, []float64{300}, "", name), ErrData)
	_, err := os.Stat(name)
	assert.True(Te, os.IsNotExist(err))
}
