// Package policy holds the access rules for every resource.
//
// A Policy has two checks: Entry runs before the handler with only the caller
// and the HTTP method, Object runs once the target row is loaded and its
// author is known. Both return a Decision so they can be tested without gin.
package policy

import (
	"net/http"

	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/models"
)

const (
	ReasonUnauthenticated = "Authentication credentials were not provided."
	ReasonForbidden       = "You do not have permission to perform this action."
)

type Decision struct {
	Allowed bool
	// Unauthenticated is set on a denial for an anonymous caller (401
	// instead of 403).
	Unauthenticated bool
	Reason          string
}

type rule func(u *models.User, method, ownerID string) bool

type Policy struct {
	Name   string
	entry  rule
	object rule
}

func IsReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func IsAuthenticated(u *models.User) bool { return u != nil }

func IsAdmin(u *models.User) bool { return u.IsAdmin() }

func IsModerator(u *models.User) bool { return u.IsModerator() }

func IsAuthor(u *models.User, ownerID string) bool {
	return u != nil && ownerID != "" && u.ID == ownerID
}

var (
	// AdminOrReadOnly guards categories, genres and titles.
	AdminOrReadOnly = Policy{
		Name: "admin_or_read_only",
		entry: func(u *models.User, method, _ string) bool {
			return IsReadOnly(method) || IsAdmin(u)
		},
		object: func(u *models.User, method, _ string) bool {
			return IsReadOnly(method) || IsAdmin(u)
		},
	}

	// ReadOnlyOrModeratorOrAuthor guards reviews and comments.
	ReadOnlyOrModeratorOrAuthor = Policy{
		Name: "read_only_or_moderator_or_author",
		entry: func(u *models.User, method, _ string) bool {
			return IsReadOnly(method) || IsAuthenticated(u)
		},
		object: func(u *models.User, method, ownerID string) bool {
			return IsReadOnly(method) || IsModerator(u) || IsAdmin(u) || IsAuthor(u, ownerID)
		},
	}

	// AdminOnly guards the user management endpoints, reads included.
	AdminOnly = Policy{
		Name: "admin_only",
		entry: func(u *models.User, _, _ string) bool {
			return IsAdmin(u)
		},
		object: func(u *models.User, _, _ string) bool {
			return IsAdmin(u)
		},
	}

	// Authenticated guards the self-service profile.
	Authenticated = Policy{
		Name: "authenticated",
		entry: func(u *models.User, _, _ string) bool {
			return IsAuthenticated(u)
		},
		object: func(u *models.User, _, _ string) bool {
			return IsAuthenticated(u)
		},
	}
)

// Entry decides whether the caller may reach the endpoint at all.
func (p Policy) Entry(u *models.User, method string) Decision {
	return p.decide(p.entry(u, method, ""), u)
}

// Object decides whether the caller may act on a row owned by ownerID.
func (p Policy) Object(u *models.User, method, ownerID string) Decision {
	return p.decide(p.object(u, method, ownerID), u)
}

func (p Policy) decide(allowed bool, u *models.User) Decision {
	var d Decision
	switch {
	case allowed:
		d = Decision{Allowed: true}
	case u == nil:
		d = Decision{Unauthenticated: true, Reason: ReasonUnauthenticated}
	default:
		d = Decision{Reason: ReasonForbidden}
	}
	metrics.PolicyDecisions.WithLabelValues(p.Name, d.label()).Inc()
	return d
}

func (d Decision) label() string {
	switch {
	case d.Allowed:
		return "allow"
	case d.Unauthenticated:
		return "unauthenticated"
	default:
		return "deny"
	}
}
