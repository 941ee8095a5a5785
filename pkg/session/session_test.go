package session

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	return NewStore(storage, zerolog.Nop()), storage
}

func testIdentity() Identity {
	return Identity{
		ID:        7,
		Email:     "student@example.com",
		Firstname: "Mona",
		Lastname:  "Haddad",
		Role:      workflow.RoleStudent,
	}
}

func TestSetAuthThenClearAuthLeavesNoTrace(t *testing.T) {
	store, storage := newTestStore(t)

	require.NoError(t, store.SetAuth("bearer-token", testIdentity()))
	require.True(t, store.Authenticated())

	require.NoError(t, store.ClearAuth())

	require.False(t, store.Authenticated())
	require.Empty(t, store.Credential())
	_, ok := store.Identity()
	require.False(t, ok)

	_, found, err := storage.Get("token")
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = storage.Get("user")
	require.NoError(t, err)
	require.False(t, found)
}

func TestHydrateRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	first := NewStore(storage, zerolog.Nop())
	require.NoError(t, first.SetAuth("bearer-token", testIdentity()))

	second := NewStore(storage, zerolog.Nop())
	require.NoError(t, second.Hydrate())

	require.True(t, second.Authenticated())
	require.Equal(t, "bearer-token", second.Credential())

	identity, ok := second.Identity()
	require.True(t, ok)
	require.Equal(t, uint(7), identity.ID)
	require.Equal(t, "student@example.com", identity.Email)
	require.Equal(t, workflow.RoleStudent, identity.Role)
}

func TestHydrateWithoutCredentialIsLoggedOut(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set("user", `{"id":1,"email":"a@b.c","role":"student"}`))

	store := NewStore(storage, zerolog.Nop())
	require.NoError(t, store.Hydrate())
	require.False(t, store.Authenticated())
}

func TestHydrateRejectsMalformedIdentity(t *testing.T) {
	cases := map[string]string{
		"not json":      "{{{",
		"missing email": `{"id":1,"role":"student"}`,
		"zero id":       `{"id":0,"email":"a@b.c","role":"student"}`,
		"empty role":    `{"id":1,"email":"a@b.c","role":""}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set("token", "bearer-token"))
			require.NoError(t, storage.Set("user", raw))

			store := NewStore(storage, zerolog.Nop())
			require.NoError(t, store.Hydrate())

			require.False(t, store.Authenticated())
			_, found, err := storage.Get("token")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestSetAuthNormalizesRoleVariant(t *testing.T) {
	store, _ := newTestStore(t)

	identity := testIdentity()
	identity.Role = "supervisyer"
	require.NoError(t, store.SetAuth("bearer-token", identity))

	got, ok := store.Identity()
	require.True(t, ok)
	require.Equal(t, workflow.RoleSupervisor, got.Role)
}

func TestUpdateIdentityMergesAndPersists(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage, zerolog.Nop())
	require.NoError(t, store.SetAuth("bearer-token", testIdentity()))

	phone := "555-0101"
	require.NoError(t, store.UpdateIdentity(IdentityPatch{Phone: &phone}))

	identity, ok := store.Identity()
	require.True(t, ok)
	require.Equal(t, "555-0101", identity.Phone)
	require.Equal(t, "student@example.com", identity.Email)

	rehydrated := NewStore(storage, zerolog.Nop())
	require.NoError(t, rehydrated.Hydrate())
	got, ok := rehydrated.Identity()
	require.True(t, ok)
	require.Equal(t, "555-0101", got.Phone)
}

func TestUpdateIdentityIsNoopWhenLoggedOut(t *testing.T) {
	store, storage := newTestStore(t)

	phone := "555-0101"
	require.NoError(t, store.UpdateIdentity(IdentityPatch{Phone: &phone}))

	_, found, err := storage.Get("user")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSubscribeObservesMutations(t *testing.T) {
	store, _ := newTestStore(t)

	calls := 0
	cancel := store.Subscribe(func() { calls++ })

	require.NoError(t, store.SetAuth("bearer-token", testIdentity()))
	require.NoError(t, store.ClearAuth())
	require.Equal(t, 2, calls)

	cancel()
	require.NoError(t, store.SetAuth("bearer-token", testIdentity()))
	require.Equal(t, 2, calls)
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileStorage(path)

	store := NewStore(storage, zerolog.Nop())
	require.NoError(t, store.SetAuth("bearer-token", testIdentity()))

	reloaded := NewStore(NewFileStorage(path), zerolog.Nop())
	require.NoError(t, reloaded.Hydrate())
	require.True(t, reloaded.Authenticated())
	require.Equal(t, "bearer-token", reloaded.Credential())

	require.NoError(t, reloaded.ClearAuth())
	fresh := NewStore(NewFileStorage(path), zerolog.Nop())
	require.NoError(t, fresh.Hydrate())
	require.False(t, fresh.Authenticated())
}
