// Package access decides, per request, whether a page route may be served to
// the caller, and where to send them otherwise. The decision is a pure
// function of the path and the verified identity; no storage is touched.
package access

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"campusevents_backend/internals/constants"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type State string

const (
	StatePublic                State = "PUBLIC"
	StateUnauthenticated       State = "UNAUTHENTICATED"
	StateAuthenticatedNoAccess State = "AUTHENTICATED_NO_ACCESS"
	StateAuthenticatedAllowed  State = "AUTHENTICATED_ALLOWED"
)

const (
	LoginPath     = "/auth/login"
	DashboardRoot = "/dashboard"
)

// Identity is what a verified token says about the caller.
type Identity struct {
	Role constants.Role
}

// Decision: a non-empty Location means answer with a 302 there.
type Decision struct {
	State    State
	Location string
}

type Rule struct {
	Prefix string
	Roles  []constants.Role
}

type Table struct {
	Public []string
	Rules  []Rule
}

// DefaultRules maps each dashboard area to the one role that owns it.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/dashboard/admin", Roles: []constants.Role{constants.RoleAdmin}},
		{Prefix: "/dashboard/organiser", Roles: []constants.Role{constants.RoleOrganizer}},
		{Prefix: "/dashboard/student", Roles: []constants.Role{constants.RoleStudent}},
	}
}

func NewTable(public []string, rules []Rule) Table {
	t := Table{Public: make([]string, 0, len(public)), Rules: make([]Rule, 0, len(rules))}
	for _, p := range public {
		t.Public = append(t.Public, normalizePrefix(p))
	}
	for _, r := range rules {
		t.Rules = append(t.Rules, Rule{Prefix: normalizePrefix(r.Prefix), Roles: r.Roles})
	}
	// longest prefix first
	sort.SliceStable(t.Rules, func(i, j int) bool { return len(t.Rules[i].Prefix) > len(t.Rules[j].Prefix) })
	return t
}

// Decide runs the filter state machine for one request path.
// id is nil when no valid identity is attached.
func (t Table) Decide(rawPath string, id *Identity) Decision {
	p := cleanPath(rawPath)

	for _, pub := range t.Public {
		if matchPrefix(p, pub) {
			return Decision{State: StatePublic}
		}
	}

	if id == nil || !id.Role.Valid() {
		return Decision{State: StateUnauthenticated, Location: LoginRedirect(p)}
	}

	if p == DashboardRoot {
		return Decision{State: StateAuthenticatedAllowed, Location: id.Role.LandingPath()}
	}

	rule, ok := t.match(p)
	if !ok {
		return Decision{State: StateAuthenticatedAllowed}
	}
	for _, r := range rule.Roles {
		if r == id.Role {
			return Decision{State: StateAuthenticatedAllowed}
		}
	}
	return Decision{State: StateAuthenticatedNoAccess, Location: id.Role.LandingPath()}
}

func (t Table) match(p string) (Rule, bool) {
	for _, r := range t.Rules {
		if matchPrefix(p, r.Prefix) {
			return r, true
		}
	}
	return Rule{}, false
}

// LoginRedirect builds /auth/login?redirect=<path>, leaving slashes readable.
func LoginRedirect(p string) string {
	escaped := (&url.URL{Path: p}).EscapedPath()
	escaped = strings.NewReplacer("&", "%26", "=", "%3D", "+", "%2B", "?", "%3F", "#", "%23").Replace(escaped)
	return LoginPath + "?redirect=" + escaped
}

// Middleware applies Decide to every request. Allowed requests get the
// verified claims in Locals; nothing is written anywhere.
func Middleware(t Table, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id *Identity
		claims, err := helperAuth.ParseToken(secret, helperAuth.ExtractRawToken(c, true))
		if err == nil {
			id = &Identity{Role: claims.Role}
		}

		d := t.Decide(c.Path(), id)
		if d.Location != "" {
			return c.Redirect(d.Location, fiber.StatusFound)
		}
		if d.State == StateAuthenticatedAllowed && claims != nil {
			helperAuth.StoreClaims(c, claims, "")
		}
		return c.Next()
	}
}

// matchPrefix is segment aware: "/dashboard/admin" matches itself and
// "/dashboard/admin/x", never "/dashboard/administrator". "/" matches only "/".
func matchPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	if prefix == "/" {
		return false
	}
	return strings.HasPrefix(p, prefix+"/")
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	return strings.TrimRight(cleanPath(p), "/")
}
