package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityIsValid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.IsValid(), "priority %q", p)
	}
	assert.False(t, Priority("").IsValid())
	assert.False(t, Priority("asap").IsValid())
	assert.False(t, Priority("Medium").IsValid(), "priorities are case-sensitive")
}
