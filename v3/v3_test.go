package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	View := A.VecView(1)
	View.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0), "a view should share memory with its parent")
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(Te, err)
	_, err = NewMatrix(nil)
	assert.Error(Te, err)
}

func TestCloneFlat(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	B := A.Clone()
	B.Set(0, 0, -1)
	assert.Equal(Te, 1.0, A.At(0, 0), "a clone must not share memory with the original")
	assert.Equal(Te, []float64{-1, 2, 3, 4, 5, 6}, B.Flat())
	assert.True(Te, mat.Equal(A.View(1, 2), B.View(1, 2)))
}

func TestZeros(Te *testing.T) {
	Z := Zeros(4)
	assert.True(Te, Z.IsZero())
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	L := ZerosLike(A)
	assert.True(Te, L.SameShape(A))
	assert.True(Te, L.IsZero())
	assert.False(Te, A.IsZero())
	assert.Panics(Te, func() { Zeros(0) })
}

func TestSwapVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	A.SwapVecs(0, 1)
	assert.Equal(Te, []float64{4, 5, 6, 1, 2, 3}, A.Flat())
	assert.Panics(Te, func() { A.SwapVecs(0, 2) })
}
