package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicware/platform/pkg/clinicapi"
)

func sessionFor(signedIn, admin bool) Session {
	if !signedIn {
		return Session{}
	}
	return Session{
		Token: "tok",
		User:  &clinicapi.User{ID: 1, IsAdmin: admin},
	}
}

func TestGuardsWaitWhileLoading(t *testing.T) {
	loading := Session{Token: "tok", Loading: true}
	assert.Equal(t, Wait, PublicOnly(loading).Kind)
	assert.Equal(t, Wait, RequireAuth(loading).Kind)
	assert.Equal(t, Wait, RequireAdmin(loading).Kind)
}

func TestPublicOnly(t *testing.T) {
	assert.Equal(t, Decision{Kind: Render}, PublicOnly(sessionFor(false, false)))
	assert.Equal(t, Decision{Kind: Redirect, Path: LandingPath}, PublicOnly(sessionFor(true, false)))
	assert.Equal(t, Decision{Kind: Redirect, Path: AdminPath}, PublicOnly(sessionFor(true, true)))
}

func TestRequireAuth(t *testing.T) {
	assert.Equal(t, Decision{Kind: Redirect, Path: SignInPath}, RequireAuth(sessionFor(false, false)))
	assert.Equal(t, Decision{Kind: Render}, RequireAuth(sessionFor(true, false)))
	assert.Equal(t, Decision{Kind: Render}, RequireAuth(sessionFor(true, true)))
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, Decision{Kind: Redirect, Path: SignInPath}, RequireAdmin(sessionFor(false, false)))
	assert.Equal(t, Decision{Kind: Redirect, Path: LandingPath}, RequireAdmin(sessionFor(true, false)))
	assert.Equal(t, Decision{Kind: Render}, RequireAdmin(sessionFor(true, true)))
}
