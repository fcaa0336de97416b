package quill

import "fmt"

// Access policy gate. Two primitives gate every operation: an authentication
// check and an exact role-set membership check. Membership is deliberately not
// hierarchical; editor-level checks enumerate admin explicitly where admin is
// allowed.

// RequireAuthenticated fails with ErrUnauthorized when there is no actor.
func RequireAuthenticated(actor *Actor) error {
	if actor == nil {
		return ErrUnauthorized
	}
	return nil
}

// RequireRole fails with ErrUnauthorized when there is no actor, and with
// ErrForbidden when the actor's role is not in the allowed set.
func RequireRole(actor *Actor, roles ...Role) error {
	if actor == nil {
		return ErrUnauthorized
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: required role %v", ErrForbidden, roles)
}

// canModifyContent allows admins, editors, and the original creator.
func canModifyContent(actor *Actor, content *Content) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if actor.Role == RoleAdmin || actor.Role == RoleEditor || content.CreatedBy == actor.ID {
		return nil
	}
	return fmt.Errorf("%w: not authorized to modify this content", ErrForbidden)
}

// canDeleteMedia allows admins and the original uploader.
func canDeleteMedia(actor *Actor, media *Media) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if actor.Role == RoleAdmin || media.CreatedBy == actor.ID {
		return nil
	}
	return fmt.Errorf("%w: not authorized to delete this media", ErrForbidden)
}
