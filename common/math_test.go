package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		v, size float64
		want    int
	}{
		{0, 16, 0},
		{15.99, 16, 0},
		{16, 16, 1},
		{-0.01, 16, -1},
		{-16, 16, -1},
		{-16.5, 16, -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FloorDiv(c.v, c.size), "FloorDiv(%v, %v)", c.v, c.size)
	}
}

func TestClampAndApproxZero(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(5, 0, 2))
	assert.Equal(t, 0.0, Clamp(-1, 0, 2))
	assert.Equal(t, 1.5, Clamp(1.5, 0, 2))

	assert.True(t, ApproxZero(Epsilon/2, Epsilon))
	assert.True(t, ApproxZero(-Epsilon, Epsilon))
	assert.False(t, ApproxZero(1e-3, Epsilon))
}
