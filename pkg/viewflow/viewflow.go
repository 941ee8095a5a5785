package viewflow

import (
	"strings"

	"github.com/hackdesk/hackdesk-api/pkg/session"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// Well-known paths.
const (
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// Decision is the outcome of resolving a navigation attempt. Exactly one of
// Grant or Redirect applies.
type Decision struct {
	Grant    bool
	Redirect string
}

// area is a role-rooted region of the route table.
type area struct {
	roles       []workflow.Role
	defaultView string
}

var areas = map[string]area{
	"student": {
		roles:       []workflow.Role{workflow.RoleStudent},
		defaultView: "/student/projects",
	},
	"supervisor": {
		roles:       []workflow.Role{workflow.RoleSupervisor, workflow.RoleAdmin},
		defaultView: "/supervisor/projects",
	},
	"admin": {
		roles:       []workflow.Role{workflow.RoleAdmin},
		defaultView: "/admin/projects",
	},
}

// Resolve decides whether the session may land on the given path. Protected
// paths without a session, wrong-role attempts, and unknown paths all
// redirect to login. A bare role root redirects to that role's default
// sub-view.
func Resolve(path string, store *session.Store) Decision {
	path = normalize(path)

	switch path {
	case LoginPath, RegisterPath:
		return Decision{Grant: true}
	case "/":
		if identity, ok := store.Identity(); ok && store.Authenticated() {
			return Decision{Redirect: DefaultView(identity.Role)}
		}
		return Decision{Redirect: LoginPath}
	}

	if !store.Authenticated() {
		return Decision{Redirect: LoginPath}
	}

	identity, ok := store.Identity()
	if !ok {
		return Decision{Redirect: LoginPath}
	}

	root := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	region, known := areas[root]
	if !known {
		return Decision{Redirect: LoginPath}
	}
	if !identity.Role.Is(region.roles...) {
		return Decision{Redirect: LoginPath}
	}

	if path == "/"+root {
		return Decision{Redirect: region.defaultView}
	}
	return Decision{Grant: true}
}

// DefaultView returns the landing path for a role.
func DefaultView(role workflow.Role) string {
	switch role {
	case workflow.RoleStudent:
		return areas["student"].defaultView
	case workflow.RoleSupervisor:
		return areas["supervisor"].defaultView
	case workflow.RoleAdmin:
		return areas["admin"].defaultView
	default:
		return LoginPath
	}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
