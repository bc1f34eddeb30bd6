package guard

import (
	"fmt"
	"strconv"
	"strings"
)

// RouteKind классифицирует маршрут клиента
type RouteKind int

const (
	RouteNotFound RouteKind = iota
	RouteHome
	RouteWelcome
	RoutePage
	RoutePost
)

func (k RouteKind) String() string {
	switch k {
	case RouteHome:
		return "home"
	case RouteWelcome:
		return "welcome"
	case RoutePage:
		return "page"
	case RoutePost:
		return "post"
	case RouteNotFound:
		return "not-found"
	default:
		return fmt.Sprintf("RouteKind(%d)", int(k))
	}
}

// Пути, на которые перенаправляет guard
const (
	PathHome    = "/"
	PathWelcome = "/welcome"
)

// Route is a parsed client location
type Route struct {
	Path   string
	PostID string
	Kind   RouteKind
	Page   int
}

// ParseRoute разбирает путь: "/", "/welcome", "/{n}" для n >= 1 и "/post/{id}".
// Все остальное RouteNotFound. Query и завершающий "/" игнорируются.
func ParseRoute(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	r := Route{Path: path, Kind: RouteNotFound}

	switch {
	case path == PathHome:
		r.Kind = RouteHome
	case path == PathWelcome:
		r.Kind = RouteWelcome
	case strings.HasPrefix(path, "/post/"):
		id := strings.TrimPrefix(path, "/post/")
		if id != "" && !strings.Contains(id, "/") {
			r.Kind = RoutePost
			r.PostID = id
		}
	default:
		segment := strings.TrimPrefix(path, "/")
		if n, err := strconv.Atoi(segment); err == nil && n >= 1 && segment == strconv.Itoa(n) {
			r.Kind = RoutePage
			r.Page = n
		}
	}

	return r
}

func (r Route) String() string {
	return r.Path
}
