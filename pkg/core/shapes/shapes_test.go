// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalid := Invalid()
	assert.False(t, invalid.Ok())
	assert.Equal(t, "(Invalid)", invalid.String())

	s0 := Make(dtypes.Float64)
	assert.True(t, s0.Ok())
	assert.True(t, s0.IsScalar())
	assert.Equal(t, 1, s0.Size())
	assert.Equal(t, uintptr(8), s0.Memory())
	assert.Equal(t, "(Float64)", s0.String())
	assert.True(t, s0.Equal(Scalar[float64]()))

	s1 := Make(dtypes.Float32, 4, 3, 2)
	assert.Equal(t, 3, s1.Rank())
	assert.Equal(t, 24, s1.Size())
	assert.Equal(t, uintptr(96), s1.Memory())
	assert.Equal(t, 2, s1.Dim(-1))
	assert.Equal(t, 4, s1.Dim(0))
	assert.Equal(t, "(Float32)[4 3 2]", s1.String())
	require.Panics(t, func() { _ = s1.Dim(3) })
	require.Panics(t, func() { _ = s1.Dim(-4) })

	s2 := Make(dtypes.Int32, 4, 3, 2)
	assert.False(t, s1.Equal(s2))
	assert.True(t, s1.EqualDimensions(s2))

	// Make copies its dimensions.
	dims := []int{2, 2}
	s3 := Make(dtypes.Float32, dims...)
	dims[0] = 7
	assert.Equal(t, []int{2, 2}, s3.Dimensions)

	clone := s3.Clone()
	clone.Dimensions[1] = 5
	assert.Equal(t, []int{2, 2}, s3.Dimensions)

	empty := Make(dtypes.Int64, 0)
	assert.Equal(t, 0, empty.Size())
	require.Panics(t, func() { Make(dtypes.Float32, 2, -1) })
}
