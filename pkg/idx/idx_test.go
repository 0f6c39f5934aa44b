package idx_test

import (
	"testing"

	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := idx.New()
	b := idx.New()
	require.NotEmpty(t, a.String())
	require.NotEqual(t, a, b)

	// Monotonic source: IDs generated in order sort in order.
	require.Less(t, a.String(), b.String())
}
