package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storebroker-io/storebroker/pkg/store"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("empty params omit everything", func(t *testing.T) {
		t.Parallel()

		values := store.NewQueryParams().ToValues()

		assert.Empty(t, values)
	})

	t.Run("top and skip", func(t *testing.T) {
		t.Parallel()

		values := store.NewQueryParams().WithTop(50).WithSkip(100).ToValues()

		assert.Equal(t, "50", values.Get("top"))
		assert.Equal(t, "100", values.Get("skip"))
	})

	t.Run("zero values are omitted", func(t *testing.T) {
		t.Parallel()

		values := store.NewQueryParams().WithTop(25).WithSkip(0).ToValues()

		assert.Equal(t, "25", values.Get("top"))
		assert.False(t, values.Has("skip"))
	})

	t.Run("nil receiver is safe", func(t *testing.T) {
		t.Parallel()

		var params *store.QueryParams

		assert.Empty(t, params.ToValues())
	})
}
