package route

import "strings"

// Match is a resolved navigation target: the chain of routes from the
// outermost layout to the terminal route, plus any captured path parameters.
type Match struct {
	Chain  []Route
	Params map[string]string
}

// MatchPath resolves a navigation path against a route tree. Layout routes
// consume their path prefix and delegate the remainder to children; index
// routes match exactly when no path segments remain; ":name" segments
// capture parameters.
func MatchPath(routes []Route, path string) (Match, bool) {
	segments := splitPath(path)
	chain, params, ok := matchRoutes(routes, segments)
	if !ok {
		return Match{}, false
	}
	return Match{Chain: chain, Params: params}, true
}

func matchRoutes(routes []Route, segments []string) ([]Route, map[string]string, bool) {
	for _, r := range routes {
		if r.Index {
			if len(segments) == 0 {
				return []Route{r}, nil, true
			}
			continue
		}

		params, rest, ok := consume(splitPath(r.Path), segments)
		if !ok {
			continue
		}

		if len(r.Children) > 0 {
			childChain, childParams, childOK := matchRoutes(r.Children, rest)
			if childOK {
				return append([]Route{r}, childChain...), merge(params, childParams), true
			}
			if len(rest) == 0 && !r.IsLayout {
				return []Route{r}, params, true
			}
			continue
		}

		if len(rest) == 0 {
			return []Route{r}, params, true
		}
	}
	return nil, nil, false
}

// consume matches a route's own segments against the head of the remaining
// navigation segments, capturing ":name" parameters.
func consume(own, segments []string) (map[string]string, []string, bool) {
	if len(own) > len(segments) {
		return nil, nil, false
	}
	var params map[string]string
	for i, seg := range own {
		if strings.HasPrefix(seg, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = segments[i]
			continue
		}
		if seg != segments[i] {
			return nil, nil, false
		}
	}
	return params, segments[len(own):], true
}

func merge(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}
