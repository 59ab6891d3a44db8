// Package route provides declarative route descriptors, a recursive path
// matcher, and an authorization gate that decides per navigation whether a
// route renders, redirects, or shows a loading placeholder.
package route

import (
	"fmt"
	"strings"
)

// AuthRequirement determines gating behavior for a route.
type AuthRequirement string

const (
	// Public routes always render.
	Public AuthRequirement = "public"
	// Guest routes render only when unauthenticated; authenticated users
	// are redirected to the landing route.
	Guest AuthRequirement = "guest"
	// Authenticated routes render only when authenticated; others are
	// redirected to the login route.
	Authenticated AuthRequirement = "authenticated"
)

// Route is a tagged descriptor: a layout (renders children inside its
// element), an index (renders at its parent's exact path), or a path route.
type Route struct {
	Name     string
	Path     string
	Index    bool
	IsLayout bool
	Auth     AuthRequirement
	Element  *LazyElement
	Children []Route
}

// Validate checks structural invariants over a route tree: layouts cannot be
// index routes, index routes carry no path and no children, and every route
// must declare its auth requirement explicitly.
func Validate(routes []Route) error {
	return validate(routes, "")
}

func validate(routes []Route, prefix string) error {
	for i, r := range routes {
		at := fmt.Sprintf("%s[%d]", prefix, i)
		if r.Name != "" {
			at = fmt.Sprintf("%s (%s)", at, r.Name)
		}

		switch r.Auth {
		case Public, Guest, Authenticated:
		default:
			return fmt.Errorf("route %s: auth requirement is mandatory", at)
		}

		if r.IsLayout && r.Index {
			return fmt.Errorf("route %s: a layout route cannot be an index route", at)
		}
		if r.Index {
			if r.Path != "" {
				return fmt.Errorf("route %s: an index route cannot have a path", at)
			}
			if len(r.Children) > 0 {
				return fmt.Errorf("route %s: an index route cannot have children", at)
			}
		}

		if err := validate(r.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
