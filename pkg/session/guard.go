package session

// DecisionKind labels a route guard outcome.
type DecisionKind int

const (
	// Wait means the session is still resolving; render nothing yet.
	Wait DecisionKind = iota
	// Render means the requested content may be shown.
	Render
	// Redirect means navigate to Decision.Path instead.
	Redirect
)

// Decision is a route guard's verdict: render the requested view, wait
// for session resolution, or redirect elsewhere. The shell performs the
// actual navigation; the policy itself has no side effects.
type Decision struct {
	Kind DecisionKind
	Path string
}

// Default navigation targets.
const (
	SignInPath  = "/auth"
	LandingPath = "/landing"
	AdminPath   = "/admin"
)

// PublicOnly admits signed-out visitors. Signed-in users are sent to
// the admin view or the landing page depending on their role.
func PublicOnly(s Session) Decision {
	if s.Loading {
		return Decision{Kind: Wait}
	}
	if s.Token != "" {
		if s.IsAdmin() {
			return Decision{Kind: Redirect, Path: AdminPath}
		}
		return Decision{Kind: Redirect, Path: LandingPath}
	}
	return Decision{Kind: Render}
}

// RequireAuth admits any signed-in user and sends everyone else to the
// sign-in view.
func RequireAuth(s Session) Decision {
	if s.Loading {
		return Decision{Kind: Wait}
	}
	if s.Token == "" {
		return Decision{Kind: Redirect, Path: SignInPath}
	}
	return Decision{Kind: Render}
}

// RequireAdmin admits administrators only: signed-out visitors go to
// sign-in, signed-in non-admins to the landing page.
func RequireAdmin(s Session) Decision {
	if s.Loading {
		return Decision{Kind: Wait}
	}
	if s.Token == "" {
		return Decision{Kind: Redirect, Path: SignInPath}
	}
	if !s.IsAdmin() {
		return Decision{Kind: Redirect, Path: LandingPath}
	}
	return Decision{Kind: Render}
}
