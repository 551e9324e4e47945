package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, users ...User) *InMemoryStore {
	t.Helper()
	store := NewInMemoryStore()
	for i := range users {
		require.NoError(t, store.CreateUser(context.Background(), &users[i]))
	}
	return store
}

func TestInMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	alice := &User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"}
	require.NoError(t, store.CreateUser(ctx, alice))

	got, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *alice, *got)
}

func TestInMemoryStore_CreateDuplicateKeepsFirst(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"})

	err := store.CreateUser(ctx, &User{ID: 1, Name: "Mallory", PhoneNo: "000", Address: "Z"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserAlreadyExists))

	got, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInMemoryStore_MissingIDs(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"})

	t.Run("get", func(t *testing.T) {
		_, err := store.GetUser(ctx, 42)
		assert.True(t, errors.Is(err, ErrUserNotFound))
	})

	t.Run("update", func(t *testing.T) {
		err := store.UpdateUser(ctx, &User{ID: 42, Name: "Nobody"})
		assert.True(t, errors.Is(err, ErrUserNotFound))
	})

	t.Run("delete", func(t *testing.T) {
		err := store.DeleteUser(ctx, 42)
		assert.True(t, errors.Is(err, ErrUserNotFound))
	})

	matched, err := store.SearchUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"}, *matched[0])
}

func TestInMemoryStore_SearchUsers(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		User{ID: 3, Name: "Joanna", PhoneNo: "3", Address: "C"},
		User{ID: 1, Name: "Anna", PhoneNo: "1", Address: "A"},
		User{ID: 2, Name: "Bob", PhoneNo: "2", Address: "B"},
	)

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "empty matches all", query: "", wantIDs: []int{1, 2, 3}},
		{name: "case insensitive", query: "ann", wantIDs: []int{1, 3}},
		{name: "upper case query", query: "BOB", wantIDs: []int{2}},
		{name: "no match", query: "zed", wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := store.SearchUsers(ctx, tt.query)
			require.NoError(t, err)
			require.NotNil(t, matched)

			ids := make([]int, 0, len(matched))
			for _, u := range matched {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestInMemoryStore_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"})

	require.NoError(t, store.UpdateUser(ctx, &User{ID: 1, Name: "Alicia", PhoneNo: "", Address: "Y"}))

	got, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Alicia", PhoneNo: "", Address: "Y"}, *got)
}

func TestInMemoryStore_DeleteRemovesFromSearch(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"},
		User{ID: 2, Name: "Alina", PhoneNo: "556", Address: "Y"},
	)

	require.NoError(t, store.DeleteUser(ctx, 1))

	_, err := store.GetUser(ctx, 1)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	matched, err := store.SearchUsers(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, 2, matched[0].ID)
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	original := &User{ID: 1, Name: "Alice", PhoneNo: "555", Address: "X"}
	store := NewInMemoryStore()
	require.NoError(t, store.CreateUser(ctx, original))

	original.Name = "changed after insert"
	got, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	got.Name = "changed after read"
	again, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}

func TestInMemoryStore_ConcurrentCreateSameID(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.CreateUser(ctx, &User{ID: 7, Name: "Racer"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
