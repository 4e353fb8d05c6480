package authz

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyIdentifier indicates a registration with a blank identifier.
var ErrEmptyIdentifier = errors.New("authz: empty identifier")

// Store is the process-wide principal store. Registration normally happens
// before serving begins, but reads and writes are still guarded so the
// store stays safe if principals are added at runtime.
type Store struct {
	mu         sync.RWMutex
	principals map[string]Principal
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{principals: make(map[string]Principal)}
}

// Register inserts or replaces the principal for identifier. Re-registering
// an identifier fully replaces its previous permission set.
func (s *Store) Register(identifier string, levels ...Level) error {
	id := NormalizeIdentifier(identifier)
	if id == "" {
		return ErrEmptyIdentifier
	}
	p := Principal{
		ID:       id,
		Levels:   append([]Level(nil), levels...),
		AuthHash: authHash(id),
	}
	s.mu.Lock()
	s.principals[id] = p
	s.mu.Unlock()
	return nil
}

// Lookup resolves an identifier to its principal. Absence is a valid,
// non-error outcome. The returned principal is a snapshot; mutating it
// does not affect the store.
func (s *Store) Lookup(identifier string) (Principal, bool) {
	id := NormalizeIdentifier(identifier)
	s.mu.RLock()
	p, ok := s.principals[id]
	s.mu.RUnlock()
	if !ok {
		return Principal{}, false
	}
	p.Levels = append([]Level(nil), p.Levels...)
	return p, true
}

// EffectivePermissions returns the union of the principal's own levels and
// any group-derived levels.
func (s *Store) EffectivePermissions(p Principal) []Level {
	seen := make(map[Level]struct{}, len(p.Levels))
	effective := make([]Level, 0, len(p.Levels))
	for _, lvl := range p.Levels {
		if _, ok := seen[lvl]; ok {
			continue
		}
		seen[lvl] = struct{}{}
		effective = append(effective, lvl)
	}
	for _, lvl := range s.groupPermissions(p) {
		if _, ok := seen[lvl]; ok {
			continue
		}
		seen[lvl] = struct{}{}
		effective = append(effective, lvl)
	}
	return effective
}

// groupPermissions is an extension point for group membership. No groups
// are defined, so principals only carry their own grants.
func (s *Store) groupPermissions(Principal) []Level {
	return nil
}

// HasPermission reports whether the principal is authorized for the
// required level: either the level was granted explicitly, or the
// principal holds some level strictly above it. A principal with no
// permissions at all is unauthorized for every level.
func (s *Store) HasPermission(p Principal, required Level) bool {
	effective := s.EffectivePermissions(p)
	if len(effective) == 0 {
		return false
	}
	max := effective[0]
	for _, lvl := range effective {
		if lvl == required {
			return true
		}
		if lvl > max {
			max = lvl
		}
	}
	return max > required
}

// NormalizeIdentifier canonicalizes an identifier with NFKC so that
// visually-confusable spellings resolve to one principal.
func NormalizeIdentifier(identifier string) string {
	return norm.NFKC.String(strings.TrimSpace(identifier))
}

// authHash derives the session verifier for an identifier. Sessions record
// it at login and are invalidated when it no longer matches. It is not a
// password hash; no password verification happens anywhere.
func authHash(id string) []byte {
	sum := blake2b.Sum256([]byte(id))
	return sum[:]
}
