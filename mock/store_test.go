package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing keys", func(t *testing.T) {
		t.Parallel()

		store, _ := mock.MemoryStore()

		_, err := store.Load(context.Background(), "missing")

		assert.Equal(t, hndigest.ENOTFOUND, hndigest.ErrorCode(err))
	})

	t.Run("saves a copy of the value", func(t *testing.T) {
		t.Parallel()

		store, data := mock.MemoryStore()
		value := []byte("[]")

		require.NoError(t, store.Save(context.Background(), "k", value))
		value[0] = 'x'

		assert.Equal(t, "[]", string(data["k"]))
		got, err := store.Load(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})
}
