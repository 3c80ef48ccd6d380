// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/tensor"
)

func TestPublicTensor(t *testing.T) {
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	v, err := x.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(6), v)
	assert.Equal(t, []int{3, 1}, x.Strides())

	_, err = x.At(2, 0)
	assert.ErrorIs(t, err, tensor.ErrIndex)

	var idxErr *tensor.IndexError
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, 0, idxErr.Axis)
	assert.Equal(t, 2, idxErr.Extent)
}

func TestPublicNew(t *testing.T) {
	x, err := tensor.New(tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, x.Data())

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2})
	assert.ErrorIs(t, err, tensor.ErrInvalidParameter)
}
