package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// identitySchema guards hydration: a persisted user blob that does not match
// it is treated as absent rather than trusted.
const identitySchema = `{
	"type": "object",
	"required": ["id", "email", "role"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"email": {"type": "string", "minLength": 3},
		"firstname": {"type": "string"},
		"lastname": {"type": "string"},
		"phone": {"type": "string"},
		"role": {"type": "string", "minLength": 1},
		"created_at": {"type": "string"}
	}
}`

var compiledIdentitySchema = jsonschema.MustCompileString("identity.schema.json", identitySchema)

// Identity is the authenticated user record held by the session.
type Identity struct {
	ID        uint          `json:"id"`
	Email     string        `json:"email"`
	Firstname string        `json:"firstname"`
	Lastname  string        `json:"lastname"`
	Phone     string        `json:"phone"`
	Role      workflow.Role `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
}

// IdentityPatch carries a partial identity update. Nil fields are left as is.
type IdentityPatch struct {
	Email     *string
	Firstname *string
	Lastname  *string
	Phone     *string
	Role      *string
}

// Store owns the session credential and identity. Persistence and memory are
// mutated together: a persistence failure aborts the in-memory change.
type Store struct {
	mu          sync.Mutex
	storage     Storage
	logger      zerolog.Logger
	credential  string
	identity    *Identity
	subscribers map[int]func()
	nextSubID   int
}

// NewStore builds a session store over the given storage backend.
func NewStore(storage Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage:     storage,
		logger:      logger.With().Str("component", "session").Logger(),
		subscribers: make(map[int]func()),
	}
}

// Hydrate loads the persisted session. A missing credential, or a user blob
// that fails to decode or validate, yields a logged-out session rather than
// an error.
func (s *Store) Hydrate() error {
	s.mu.Lock()

	credential, ok, err := s.storage.Get(tokenKey)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to read persisted credential: %w", err)
	}
	if !ok || credential == "" {
		s.credential = ""
		s.identity = nil
		s.mu.Unlock()
		s.notify()
		return nil
	}

	rawUser, ok, err := s.storage.Get(userKey)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to read persisted identity: %w", err)
	}

	identity, valid := decodeIdentity(rawUser)
	if !ok || !valid {
		s.logger.Warn().Msg("persisted identity rejected, discarding session")
		s.dropPersisted()
		s.credential = ""
		s.identity = nil
		s.mu.Unlock()
		s.notify()
		return nil
	}

	s.credential = credential
	s.identity = &identity
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetAuth stores a fresh credential and identity, persisting before the
// in-memory state changes.
func (s *Store) SetAuth(credential string, identity Identity) error {
	if credential == "" {
		return fmt.Errorf("credential must not be empty")
	}

	identity.Role = canonicalRole(string(identity.Role))

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Set(tokenKey, credential); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	if err := s.storage.Set(userKey, string(raw)); err != nil {
		s.storage.Delete(tokenKey)
		s.mu.Unlock()
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	s.credential = credential
	s.identity = &identity
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearAuth removes the persisted keys and empties the in-memory session.
// Memory is cleared even when the storage deletes fail, since logged-out is
// the safe state.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	err := s.dropPersisted()
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()
	s.notify()
	return err
}

// UpdateIdentity merges the patch into the current identity and re-persists
// it. A no-op when the session is unauthenticated.
func (s *Store) UpdateIdentity(patch IdentityPatch) error {
	s.mu.Lock()

	if s.identity == nil {
		s.mu.Unlock()
		return nil
	}

	merged := *s.identity
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Firstname != nil {
		merged.Firstname = *patch.Firstname
	}
	if patch.Lastname != nil {
		merged.Lastname = *patch.Lastname
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.Role != nil {
		merged.Role = canonicalRole(*patch.Role)
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.storage.Set(userKey, string(raw)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	s.identity = &merged
	s.mu.Unlock()
	s.notify()
	return nil
}

// Credential returns the current bearer credential, empty when logged out.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Identity returns a copy of the current identity.
func (s *Store) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != ""
}

// Subscribe registers a callback invoked after every session mutation. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) dropPersisted() error {
	tokenErr := s.storage.Delete(tokenKey)
	userErr := s.storage.Delete(userKey)
	if tokenErr != nil {
		return fmt.Errorf("failed to remove persisted credential: %w", tokenErr)
	}
	if userErr != nil {
		return fmt.Errorf("failed to remove persisted identity: %w", userErr)
	}
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	callbacks := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func decodeIdentity(raw string) (Identity, bool) {
	if raw == "" {
		return Identity{}, false
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Identity{}, false
	}
	if err := compiledIdentitySchema.Validate(payload); err != nil {
		return Identity{}, false
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return Identity{}, false
	}

	identity.Role = canonicalRole(string(identity.Role))
	return identity, true
}

// canonicalRole falls back to the least-privileged role when the raw value is
// not a known variant.
func canonicalRole(raw string) workflow.Role {
	role, ok := workflow.ParseRole(raw)
	if !ok {
		return workflow.RoleStudent
	}
	return role
}
