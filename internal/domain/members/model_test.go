package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBillable(t *testing.T) {
	for _, s := range BillableStatuses {
		m := Member{Status: s}
		assert.True(t, m.IsBillable(), s)
	}

	m := Member{Status: StatusWithdrawn}
	assert.False(t, m.IsBillable())
}
