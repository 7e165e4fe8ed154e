package infostore

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vc3-project/vc3-info-service/pkg/persist"
	"github.com/vc3-project/vc3-info-service/pkg/value"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return New(persist.NewMemory())
}

func parse(t *testing.T, s string) *value.Value {
	t.Helper()
	v, err := value.Parse([]byte(s))
	require.NoError(t, err, "bad test value %q", s)
	return v
}

func parseDoc(t *testing.T, s string) persist.Document {
	t.Helper()
	v := parse(t, s)
	require.Equal(t, value.MapType, v.Type, "test document must be a JSON object")
	return persist.Document(v.Fields)
}

func TestCreateEntity(t *testing.T) {
	s := setupStore(t)

	t.Run("Create", func(t *testing.T) {
		err := s.CreateEntity("users", "alice", parse(t, `{"name":"alice","allocations":[]}`))
		require.NoError(t, err)

		got, err := s.GetEntity("users", "alice")
		require.NoError(t, err)
		assert.True(t, got.Equal(parse(t, `{"name":"alice","allocations":[]}`)))
	})

	t.Run("DuplicateFails", func(t *testing.T) {
		before, err := s.ReadDocument("users")
		require.NoError(t, err)

		err = s.CreateEntity("users", "alice", parse(t, `{"name":"alice","extra":true}`))
		require.Error(t, err)
		assert.Equal(t, ErrCodeEntityExists, ErrorCode(err))

		// Document after both calls equals document after the first alone.
		after, err := s.ReadDocument("users")
		require.NoError(t, err)
		require.Len(t, after, len(before))
		assert.True(t, after["alice"].Equal(before["alice"]))
	})

	t.Run("LazyDocumentCreation", func(t *testing.T) {
		err := s.CreateEntity("fresh-key", "first", parse(t, `{"name":"first"}`))
		require.NoError(t, err)
		doc, err := s.ReadDocument("fresh-key")
		require.NoError(t, err)
		assert.Len(t, doc, 1)
	})
}

func TestUpdateEntity(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.CreateEntity("users", "spt",
		parse(t, `{"name":"SPT","allocations":[],"blueprints":["b1"]}`)))

	t.Run("ShallowAttributeReplace", func(t *testing.T) {
		err := s.UpdateEntity("users", "spt", parse(t, `{"allocations":["lincolnb.uchicago-midway"]}`))
		require.NoError(t, err)

		got, err := s.GetEntity("users", "spt")
		require.NoError(t, err)
		// Updated attribute replaced wholesale, untouched attributes preserved.
		assert.True(t, got.Equal(parse(t,
			`{"name":"SPT","allocations":["lincolnb.uchicago-midway"],"blueprints":["b1"]}`)))
	})

	t.Run("ReplaceNotDeepMerge", func(t *testing.T) {
		// A list attribute is overwritten, not appended to.
		err := s.UpdateEntity("users", "spt", parse(t, `{"blueprints":["b2"]}`))
		require.NoError(t, err)

		got, err := s.GetEntity("users", "spt")
		require.NoError(t, err)
		assert.True(t, got.Fields["blueprints"].Equal(parse(t, `["b2"]`)))
	})

	t.Run("MissingFails", func(t *testing.T) {
		err := s.UpdateEntity("users", "ghost", parse(t, `{"x":1}`))
		require.Error(t, err)
		assert.Equal(t, ErrCodeEntityMissing, ErrorCode(err))
	})

	t.Run("MissingDocumentFails", func(t *testing.T) {
		err := s.UpdateEntity("no-such-doc", "ghost", parse(t, `{"x":1}`))
		require.Error(t, err)
		assert.Equal(t, ErrCodeEntityMissing, ErrorCode(err))
	})
}

func TestGetEntity(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.CreateEntity("users", "alice", parse(t, `{"name":"alice"}`)))

	t.Run("Found", func(t *testing.T) {
		got, err := s.GetEntity("users", "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Fields["name"].Str)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := s.GetEntity("users", "bob")
		require.Error(t, err)
		assert.Equal(t, ErrCodeEntityMissing, ErrorCode(err))
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		got, err := s.GetEntity("users", "alice")
		require.NoError(t, err)
		got.Fields["name"] = value.FromString("mallory")

		again, err := s.GetEntity("users", "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", again.Fields["name"].Str, "mutating a returned entity must not affect stored state")
	})
}

func TestDeleteEntity(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.CreateEntity("users", "alice", parse(t, `{"name":"alice"}`)))

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.DeleteEntity("users", "alice"))
		_, err := s.GetEntity("users", "alice")
		assert.Equal(t, ErrCodeEntityMissing, ErrorCode(err))
	})

	t.Run("MissingFails", func(t *testing.T) {
		err := s.DeleteEntity("users", "alice")
		require.Error(t, err)
		assert.Equal(t, ErrCodeEntityMissing, ErrorCode(err))
	})
}

func TestDocumentOperations(t *testing.T) {
	s := setupStore(t)

	t.Run("ReadUnknownKeyIsEmpty", func(t *testing.T) {
		doc, err := s.ReadDocument("nowhere")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("Replace", func(t *testing.T) {
		require.NoError(t, s.ReplaceDocument("users", parseDoc(t, `{"a":{"n":1},"b":{"n":2}}`)))
		require.NoError(t, s.ReplaceDocument("users", parseDoc(t, `{"c":{"n":3}}`)))

		doc, err := s.ReadDocument("users")
		require.NoError(t, err)
		require.Len(t, doc, 1)
		assert.Contains(t, doc, "c")
	})

	t.Run("MergeIntoEmpty", func(t *testing.T) {
		require.NoError(t, s.MergeDocument("merged", parseDoc(t, `{"e":{"x":1}}`)))
		doc, err := s.ReadDocument("merged")
		require.NoError(t, err)
		assert.True(t, doc["e"].Equal(parse(t, `{"x":1}`)))
	})

	t.Run("MergeIsDeep", func(t *testing.T) {
		require.NoError(t, s.ReplaceDocument("deep", parseDoc(t, `{"e":{"list":[1,2],"keep":"yes"}}`)))
		require.NoError(t, s.MergeDocument("deep", parseDoc(t, `{"e":{"list":[2,3]}}`)))

		doc, err := s.ReadDocument("deep")
		require.NoError(t, err)
		assert.True(t, doc["e"].Equal(parse(t, `{"list":[1,2,3],"keep":"yes"}`)))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.ReplaceDocument("gone", parseDoc(t, `{"e":{}}`)))
		require.NoError(t, s.DeleteDocument("gone"))
		doc, err := s.ReadDocument("gone")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestMergeFailureLeavesDocumentUntouched(t *testing.T) {
	backend := persist.NewMemory()
	s := New(backend)

	// Corrupt stored state: an entity with an invalid type tag. Only a
	// corrupt destination can fail the merge; mismatched source types
	// are tolerated by design.
	require.NoError(t, backend.StoreDocument("users", persist.Document{
		"bad": &value.Value{Type: value.Type(99)},
	}))

	fragment := parseDoc(t, `{"bad":{"n":2},"new":{"n":3}}`)
	err := s.MergeDocument("users", fragment)
	require.Error(t, err)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCodeMergeType, se.Code)

	doc, err := s.ReadDocument("users")
	require.NoError(t, err)
	require.Len(t, doc, 1, "failed merge must not persist partial results")
	assert.NotContains(t, doc, "new")
}

func TestConcurrentCreateEntityExactlyOneWinner(t *testing.T) {
	s := setupStore(t)

	const workers = 32
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			entity := parse(t, `{"name":"contested"}`)
			entity.Fields["worker"] = value.FromNumber(float64(n))
			errs[n] = s.CreateEntity("users", "contested", entity)
		}(i)
	}
	wg.Wait()

	var winners, losers int
	var winner int
	for n, err := range errs {
		if err == nil {
			winners++
			winner = n
			continue
		}
		assert.Equal(t, ErrCodeEntityExists, ErrorCode(err))
		losers++
	}
	assert.Equal(t, 1, winners, "exactly one create must succeed")
	assert.Equal(t, workers-1, losers)

	got, err := s.GetEntity("users", "contested")
	require.NoError(t, err)
	assert.Equal(t, float64(winner), got.Fields["worker"].Num,
		"stored entity must be the winning call's entity")
}
