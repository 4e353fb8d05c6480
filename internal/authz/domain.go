// Package authz implements the request authorization pipeline: a numeric
// permission model, the in-memory principal store, guard functions and
// their composition into middleware stages.
package authz

// Level is a numeric permission level. Higher values denote greater
// authority under the seniority rule implemented by Store.HasPermission.
type Level uint8

// Built-in roles, ordered by authority.
const (
	LevelUser  Level = 100
	LevelAdmin Level = 255
)

// Principal is an authenticated identity with its granted permission levels.
type Principal struct {
	ID       string
	Levels   []Level
	AuthHash []byte
}
