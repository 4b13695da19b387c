package auth

// Authorize is the access decision: allow when the claim's role snapshot
// intersects the required set. Multiple required roles are OR'ed, not AND'ed.
// An empty requirement admits any authenticated claim; an anonymous caller
// (nil claims) is denied whenever anything is required.
//
// This must run after token validation and before the protected operation,
// the jwtware middleware composes both in that order.
func Authorize(claims AuthClaims, required ...UserRole) error {
	if len(required) == 0 {
		if claims == nil {
			return ErrAccessDenied
		}
		return nil
	}

	if claims == nil {
		return ErrAccessDenied
	}

	if claims.HasAnyRole(required...) {
		return nil
	}

	return ErrAccessDenied
}

// MatchRoles reports whether the two role sets intersect. Set semantics, no
// order guarantee on either side.
func MatchRoles(required, held []UserRole) bool {
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}
