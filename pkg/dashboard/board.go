package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/pkg/gateway"
)

var (
	// ErrUpdateInFlight means the entity already has a pending mutation.
	ErrUpdateInFlight = errors.New("update already in flight for this project")
	// ErrUnknownProject means the entity is not in the board cache.
	ErrUnknownProject = errors.New("project not loaded on this board")
	// ErrUnsupported means the operation is not available on this board.
	ErrUnsupported = errors.New("operation not available on this board")
)

// ops binds a board to the slice of gateway capability it renders.
type ops struct {
	list      func(ctx context.Context) ([]gateway.Project, error)
	setStatus func(ctx context.Context, id uint, label string) (gateway.Project, error)
	submit    func(ctx context.Context, id uint) (gateway.Project, error)
	edit      func(ctx context.Context, id uint, edit gateway.ProjectEdit) (gateway.Project, error)
}

// Board caches projects for one view and reconciles optimistic mutations
// against server responses. Every mutation marks its entity in-flight: a
// second mutation on the same entity is rejected until the first settles.
// Completions that arrive after the board moved on are discarded.
type Board struct {
	mu         sync.Mutex
	ops        ops
	logger     zerolog.Logger
	projects   map[uint]gateway.Project
	inflight   map[uint]uint64
	generation uint64
}

// NewSupervisorBoard builds the review board: list everything, move statuses.
func NewSupervisorBoard(client *gateway.Client, logger zerolog.Logger) *Board {
	return newBoard(ops{
		list:      client.Supervisor.Projects,
		setStatus: client.Tasks.SetStatus,
	}, logger)
}

// NewStudentBoard builds the owner board: own projects, edit and submit.
func NewStudentBoard(client *gateway.Client, logger zerolog.Logger) *Board {
	return newBoard(ops{
		list:   client.Student.Projects,
		submit: client.Student.Submit,
		edit:   client.Student.Update,
	}, logger)
}

func newBoard(ops ops, logger zerolog.Logger) *Board {
	return &Board{
		ops:      ops,
		logger:   logger.With().Str("component", "dashboard").Logger(),
		projects: make(map[uint]gateway.Project),
		inflight: make(map[uint]uint64),
	}
}

// Refresh replaces the cache with the server's view. Pending mutations keep
// running but their completions no longer apply.
func (b *Board) Refresh(ctx context.Context) error {
	if b.ops.list == nil {
		return ErrUnsupported
	}

	projects, err := b.ops.list(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.projects = make(map[uint]gateway.Project, len(projects))
	for _, project := range projects {
		b.projects[project.ID] = project
	}
	b.inflight = make(map[uint]uint64)
	b.mu.Unlock()
	return nil
}

// SetStatus optimistically moves a project to the given workflow label.
func (b *Board) SetStatus(ctx context.Context, id uint, label string) (gateway.Project, error) {
	if b.ops.setStatus == nil {
		return gateway.Project{}, ErrUnsupported
	}
	return b.mutate(ctx, id,
		func(guess *gateway.Project) { guess.Status = label },
		func(ctx context.Context) (gateway.Project, error) {
			return b.ops.setStatus(ctx, id, label)
		})
}

// Submit optimistically finalizes a project.
func (b *Board) Submit(ctx context.Context, id uint) (gateway.Project, error) {
	if b.ops.submit == nil {
		return gateway.Project{}, ErrUnsupported
	}
	return b.mutate(ctx, id,
		func(guess *gateway.Project) { guess.Submitted = true },
		func(ctx context.Context) (gateway.Project, error) {
			return b.ops.submit(ctx, id)
		})
}

// Edit optimistically applies an owner-side partial update.
func (b *Board) Edit(ctx context.Context, id uint, edit gateway.ProjectEdit) (gateway.Project, error) {
	if b.ops.edit == nil {
		return gateway.Project{}, ErrUnsupported
	}
	return b.mutate(ctx, id,
		func(guess *gateway.Project) {
			if edit.Title != nil {
				guess.Title = *edit.Title
			}
			if edit.Description != nil {
				guess.Description = *edit.Description
			}
			if edit.TeamMembers != nil {
				guess.TeamMembers = *edit.TeamMembers
			}
		},
		func(ctx context.Context) (gateway.Project, error) {
			return b.ops.edit(ctx, id, edit)
		})
}

// mutate runs one optimistic mutation: apply the guess locally, fire the
// call, then either adopt the server record wholesale or roll back to the
// pre-mutation snapshot. The in-flight marker is cleared on every path.
func (b *Board) mutate(ctx context.Context, id uint, guess func(*gateway.Project), call func(context.Context) (gateway.Project, error)) (gateway.Project, error) {
	b.mu.Lock()
	snapshot, ok := b.projects[id]
	if !ok {
		b.mu.Unlock()
		return gateway.Project{}, ErrUnknownProject
	}
	if _, busy := b.inflight[id]; busy {
		b.mu.Unlock()
		return gateway.Project{}, ErrUpdateInFlight
	}

	b.generation++
	marker := b.generation
	b.inflight[id] = marker

	optimistic := snapshot
	guess(&optimistic)
	b.projects[id] = optimistic
	b.mu.Unlock()

	updated, err := call(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inflight[id] != marker {
		// The board was refreshed while this call was pending. Its state
		// already reflects a newer truth, so this completion must not touch
		// it.
		b.logger.Debug().Uint("project_id", id).Msg("stale completion discarded")
		return updated, err
	}
	delete(b.inflight, id)

	if err != nil {
		if gateway.IsKind(err, gateway.KindNotFound) {
			delete(b.projects, id)
		} else {
			b.projects[id] = snapshot
		}
		return gateway.Project{}, err
	}

	b.projects[id] = updated
	return updated, nil
}

// Project returns the cached record for an id.
func (b *Board) Project(id uint) (gateway.Project, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	project, ok := b.projects[id]
	return project, ok
}

// Projects returns the cached records ordered by id.
func (b *Board) Projects() []gateway.Project {
	b.mu.Lock()
	defer b.mu.Unlock()

	projects := make([]gateway.Project, 0, len(b.projects))
	for _, project := range b.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects
}

// InFlight reports whether the entity has a pending mutation.
func (b *Board) InFlight(id uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, busy := b.inflight[id]
	return busy
}
