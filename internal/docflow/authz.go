package docflow

import (
	"context"
	"fmt"
	"strings"
)

// Role is a caller role as carried by the identity provider.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts client, manager (or builder) and admin.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "manager", "builder":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrBadInput, s)
	}
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Roles  []Role
}

func (p Principal) HasRole(r Role) bool {
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// IsProvider reports whether the principal acts for the construction provider.
func (p Principal) IsProvider() bool {
	return p.HasRole(RoleManager) || p.HasRole(RoleAdmin)
}

// ActorFor returns the actor type recorded for actions by p.
func ActorFor(p Principal) ActorType {
	if p.IsProvider() {
		return ActorManager
	}
	return ActorClient
}

// RequireProvider rejects principals that are neither manager nor admin.
func RequireProvider(p Principal) error {
	if !p.IsProvider() {
		return fmt.Errorf("%w: provider role required", ErrForbidden)
	}
	return nil
}

// CanReadDocument allows providers, the recipient, and anyone who authored
// a version of the document.
func (e *Engine) CanReadDocument(ctx context.Context, p Principal, documentID string) error {
	if p.IsProvider() {
		return nil
	}
	return e.inTx(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if p.UserID != "" && doc.RecipientID == p.UserID {
			return nil
		}
		versions, err := tx.ListVersions(ctx, documentID)
		if err != nil {
			return fmt.Errorf("loading versions: %w", err)
		}
		for _, v := range versions {
			if p.UserID != "" && v.CreatedByID == p.UserID {
				return nil
			}
		}
		return fmt.Errorf("%w: no access to document %s", ErrForbidden, documentID)
	})
}

// CanReadProject allows providers and the user the listing is scoped to.
func CanReadProject(p Principal, userID string) error {
	if p.IsProvider() {
		return nil
	}
	if userID == "" || userID != p.UserID {
		return fmt.Errorf("%w: clients may only list their own documents", ErrForbidden)
	}
	return nil
}
