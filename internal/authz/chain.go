package authz

import "net/http"

type chain struct {
	guards []Guard
}

// Chain combines guards into one effective guard. Guards run strictly in
// argument order; the first rejection is returned unchanged and later
// guards never run. When every guard accepts, the request after the last
// guard, with all accumulated mutations, is the chain's accepted output.
// Order matters: a role guard relies on the login guard having run first.
func Chain(guards ...Guard) Guard {
	if len(guards) == 0 {
		panic("authz: Chain requires at least one guard")
	}
	return chain{guards: append([]Guard(nil), guards...)}
}

// Evaluate implements Guard.
func (c chain) Evaluate(r *http.Request) Outcome {
	for _, g := range c.guards {
		out := g.Evaluate(r)
		if out.Rejection != nil {
			return out
		}
		r = out.Request
	}
	return Accept(r)
}
