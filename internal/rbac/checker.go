// Package rbac maps roles to permissions and guards routes with them.
package rbac

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Checker answers permission questions against a role → permissions table.
// A permission ending in "*" matches every permission with that prefix.
type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

// LoadPolicy reads a YAML document of the form
//
//	teacher: ["plan:*", "topics:view"]
//	viewer:  ["plan:view"]
//
// Roles missing from the file keep their default permissions.
func LoadPolicy(path string) (*Checker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rbac policy: %w", err)
	}
	var overrides map[string][]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("decode rbac policy: %w", err)
	}
	merged := make(map[string][]string, len(RolePermissions)+len(overrides))
	for role, perms := range RolePermissions {
		merged[role] = perms
	}
	for role, perms := range overrides {
		merged[role] = perms
	}
	return NewChecker(merged), nil
}

func (c *Checker) Has(role, perm string) bool {
	for _, p := range c.RolePermissions[role] {
		if p == "*" || p == perm {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(perm, prefix) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	r, _ := ctx.Value(roleKey{}).(string)
	return r
}
