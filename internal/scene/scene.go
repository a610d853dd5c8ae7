// Package scene is the pose sink between the stepping world and its
// readers. The world marks entities dirty while it holds the step lock and
// publishes them in one flush; viewers and recorders only ever observe the
// last published state.
package scene

import (
	"sort"
	"sync"

	"github.com/san-kum/rigsim/internal/rig"
)

// Update is one published pose change.
type Update struct {
	Name string
	Pose rig.Pose
}

// Scene holds named entity poses behind its own lock, separate from the
// world's step lock, so readers never contend with stepping.
type Scene struct {
	mu    sync.RWMutex
	poses map[string]rig.Pose
	dirty map[string]rig.Pose
}

func New() *Scene {
	return &Scene{
		poses: make(map[string]rig.Pose),
		dirty: make(map[string]rig.Pose),
	}
}

// Add registers an entity at its initial pose, published immediately.
func (s *Scene) Add(name string, p rig.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poses[name] = p
}

// Remove drops an entity and any pending update for it.
func (s *Scene) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.poses, name)
	delete(s.dirty, name)
}

// MarkDirty collects a pose change without publishing it. Readers keep
// seeing the previous pose until Flush.
func (s *Scene) MarkDirty(name string, p rig.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[name] = p
}

// Flush publishes every collected change and reports them sorted by name.
// A flush with nothing pending returns nil.
func (s *Scene) Flush() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.dirty) == 0 {
		return nil
	}
	ups := make([]Update, 0, len(s.dirty))
	for name, p := range s.dirty {
		s.poses[name] = p
		ups = append(ups, Update{Name: name, Pose: p})
		delete(s.dirty, name)
	}
	sort.Slice(ups, func(i, j int) bool { return ups[i].Name < ups[j].Name })
	return ups
}

// Pose returns the last published pose of an entity.
func (s *Scene) Pose(name string) (rig.Pose, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.poses[name]
	return p, ok
}

// Snapshot copies the published poses. The copy is the caller's; later
// flushes do not touch it.
func (s *Scene) Snapshot() map[string]rig.Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]rig.Pose, len(s.poses))
	for name, p := range s.poses {
		out[name] = p
	}
	return out
}

// Len reports the number of published entities.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.poses)
}
