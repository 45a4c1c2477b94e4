package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

	b := p.Get()
	b.WriteString("frame")
	p.Put(b)
	assert.Zero(t, b.Len())

	assert.NotNil(t, p.Get())
}

func TestPoolWithoutReset(t *testing.T) {
	generated := 0
	p := NewPool(func() int { generated++; return generated }, nil)

	assert.Equal(t, 1, p.Get())
	p.Put(7)
	assert.Contains(t, []int{7, 2}, p.Get())
}
