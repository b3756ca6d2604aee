// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package access

import (
	"strings"

	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// Role is a user's authority level. Values are stored as-is in the users table.
type Role int

// Roles. A higher value is not a superset of a lower one: every check compares
// against a specific role.
const (
	RoleRegular    Role = 1
	RoleAdmin      Role = 2
	RoleSuperAdmin Role = 3
)

var roleNames = map[Role]string{
	RoleRegular:    "regular",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super-admin",
}

// String returns the role's name as accepted by ParseRole.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole parses "regular", "admin" or "super-admin".
func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == needle {
			return role, nil
		}
	}
	return 0, errutil.InvalidArgument("role", "must be one of regular, admin, super-admin")
}
