package capture

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	t.Run("begin assigns an id and tracks the request", func(t *testing.T) {
		j := NewJournal()
		id := j.Begin(&Record{Method: "GET", URL: "/users/1"})
		assert.NotEmpty(t, id)
		assert.Equal(t, 1, j.Pending())
	})

	t.Run("begin keeps a caller-supplied id", func(t *testing.T) {
		j := NewJournal()
		id := j.Begin(&Record{ID: "req-7", Method: "GET", URL: "/a"})
		assert.Equal(t, "req-7", id)
	})

	t.Run("complete attaches the response and removes the entry", func(t *testing.T) {
		j := NewJournal()
		id := j.Begin(&Record{Method: "POST", URL: "/users", Body: `{"name":"Ada"}`})

		rec, ok := j.Complete(id, 201, map[string]string{"Content-Type": "application/json"}, `{"id":1}`)
		require.True(t, ok)
		assert.Equal(t, 201, rec.Status)
		assert.Equal(t, `{"id":1}`, rec.ResponseBody)
		assert.False(t, rec.CompletedAt.IsZero())
		assert.Equal(t, 0, j.Pending())

		_, ok = j.Complete(id, 200, nil, nil)
		assert.False(t, ok, "completing twice must fail")
	})

	t.Run("abort removes a pending entry", func(t *testing.T) {
		j := NewJournal()
		id := j.Begin(&Record{Method: "GET", URL: "/slow"})

		rec, ok := j.Abort(id)
		require.True(t, ok)
		assert.Equal(t, "/slow", rec.URL)
		assert.Equal(t, 0, j.Pending())

		_, ok = j.Abort(id)
		assert.False(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		j := NewJournal()
		_, ok := j.Complete("nope", 200, nil, nil)
		assert.False(t, ok)
	})

	t.Run("concurrent lifecycle", func(t *testing.T) {
		j := NewJournal()
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				id := j.Begin(&Record{Method: "GET", URL: fmt.Sprintf("/items/%d", n)})
				_, ok := j.Complete(id, 200, nil, nil)
				assert.True(t, ok)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 0, j.Pending())
	})
}
