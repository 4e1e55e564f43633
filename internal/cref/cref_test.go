package cref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveLoadRelease(t *testing.T) {
	type payload struct{ n int }

	p := Save(&payload{n: 42})
	got, ok := Load(p).(*payload)
	assert.True(t, ok)
	assert.Equal(t, 42, got.n)

	Release(p)
	assert.Nil(t, Load(p))

	// releasing twice must not double-free
	Release(p)
}
