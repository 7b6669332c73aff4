package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderCode_FirstCode(t *testing.T) {
	f := newFixture()

	code, err := f.svc.nextOrderCode(context.Background(), bizA)

	require.NoError(t, err)
	assert.Equal(t, "ORD-001", code)
	assert.Equal(t, 1, f.store.lockCalls)
}

func TestNextOrderCode_ProbesPastGaps(t *testing.T) {
	f := newFixture()
	// Two surviving codes out of an original three: ORD-002 was deleted.
	f.store.takeCode(bizA, "ORD-001")
	f.store.takeCode(bizA, "ORD-003")

	code, err := f.svc.nextOrderCode(context.Background(), bizA)

	require.NoError(t, err)
	// count=2 -> candidate ORD-003 is taken -> probe up to ORD-004.
	assert.Equal(t, "ORD-004", code)
}

func TestNextOrderCode_ScopedPerBusiness(t *testing.T) {
	f := newFixture()
	f.store.takeCode(bizB, "ORD-001")

	code, err := f.svc.nextOrderCode(context.Background(), bizA)

	require.NoError(t, err)
	assert.Equal(t, "ORD-001", code, "another business's codes are invisible")
}

func TestNextOrderCode_PadsBeyondThreeDigits(t *testing.T) {
	f := newFixture()
	for i := 1; i <= 999; i++ {
		f.store.takeCode(bizA, fmt.Sprintf("%s%03d", CodePrefix, i))
	}

	code, err := f.svc.nextOrderCode(context.Background(), bizA)

	require.NoError(t, err)
	assert.Equal(t, "ORD-1000", code)
}

func TestNextOrderCode_LockFailurePropagates(t *testing.T) {
	f := newFixture()
	f.store.lockErr = ErrLockTimeout

	_, err := f.svc.nextOrderCode(context.Background(), bizA)

	require.ErrorIs(t, err, ErrLockTimeout)
	assert.True(t, IsTransient(err))
}
