package route

import (
	"github.com/ambiyansyah-risyal/antrean/session"
)

// Action is the gate's verdict for a navigation.
type Action int

const (
	// ActionRender renders the matched elements.
	ActionRender Action = iota
	// ActionRedirect navigates elsewhere, replacing history so back
	// navigation cannot loop onto the gated page.
	ActionRedirect
	// ActionLoading renders a loading placeholder: auth status is still
	// indeterminate or a lazy element is resolving.
	ActionLoading
	// ActionNotFound means no route matched the path.
	ActionNotFound
)

// Decision is the outcome of gating one navigation.
type Decision struct {
	Action   Action
	Elements []Element // outermost layout first, terminal element last
	Params   map[string]string
	Target   string // redirect destination
	Replace  bool
}

// Gate evaluates route authorization against the session store. It is
// re-evaluated on every navigation and on every session change.
type Gate struct {
	store   *session.Store
	login   string
	landing string
}

// NewGate creates a gate redirecting unauthenticated users to login and
// authenticated users away from guest routes to landing.
func NewGate(store *session.Store, loginPath, landingPath string) *Gate {
	return &Gate{store: store, login: loginPath, landing: landingPath}
}

// Resolve matches the path and gates the resulting route chain. The
// strictest requirement on the chain wins: a layout's auth requirement
// covers every nested child.
func (g *Gate) Resolve(routes []Route, path string) Decision {
	match, ok := MatchPath(routes, path)
	if !ok {
		return Decision{Action: ActionNotFound}
	}

	snap := g.store.Snapshot()

	for _, r := range match.Chain {
		switch r.Auth {
		case Authenticated:
			if snap.IsLoading {
				return Decision{Action: ActionLoading}
			}
			if !snap.IsAuthenticated {
				return Decision{Action: ActionRedirect, Target: g.login, Replace: true}
			}
		case Guest:
			if snap.IsAuthenticated {
				return Decision{Action: ActionRedirect, Target: g.landing, Replace: true}
			}
		}
	}

	elements := make([]Element, 0, len(match.Chain))
	for _, r := range match.Chain {
		if r.Element == nil {
			continue
		}
		element, ready := r.Element.Ready()
		if !ready {
			if err := r.Element.Err(); err != nil {
				return Decision{Action: ActionNotFound}
			}
			return Decision{Action: ActionLoading}
		}
		elements = append(elements, element)
	}

	return Decision{Action: ActionRender, Elements: elements, Params: match.Params}
}

// Evaluate gates a single route outside of path matching, for callers that
// manage their own routing.
func (g *Gate) Evaluate(r Route) Decision {
	snap := g.store.Snapshot()

	switch r.Auth {
	case Authenticated:
		if snap.IsLoading {
			return Decision{Action: ActionLoading}
		}
		if !snap.IsAuthenticated {
			return Decision{Action: ActionRedirect, Target: g.login, Replace: true}
		}
	case Guest:
		if snap.IsAuthenticated {
			return Decision{Action: ActionRedirect, Target: g.landing, Replace: true}
		}
	}

	if r.Element == nil {
		return Decision{Action: ActionRender}
	}
	element, ready := r.Element.Ready()
	if !ready {
		return Decision{Action: ActionLoading}
	}
	return Decision{Action: ActionRender, Elements: []Element{element}}
}
