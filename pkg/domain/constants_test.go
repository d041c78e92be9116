package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatEquals(t *testing.T) {
	assert.True(t, FloatEquals(1.0, 1.0+Epsilon/2))
	assert.False(t, FloatEquals(1.0, 1.0+Epsilon*2))
}

func TestFloatLess(t *testing.T) {
	assert.True(t, FloatLess(1.0, 1.0+Epsilon*10))
	assert.False(t, FloatLess(1.0, 1.0+Epsilon/2))
	assert.False(t, FloatLess(1.0, 1.0))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.True(t, IsZero(Epsilon/2))
	assert.False(t, IsZero(Epsilon*2))
}

func TestNodeKindString(t *testing.T) {
	cases := map[NodeKind]string{
		KindUnspecified:     "unspecified",
		KindTransit:         "transit",
		KindMid:             "mid",
		KindCustomer:        "customer",
		KindContentProvider: "content-provider",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestNodeRoleString(t *testing.T) {
	cases := map[NodeRole]string{
		RoleStandard: "standard",
		RoleSource:   "source",
		RoleVictim:   "victim",
		RoleAlly:     "ally",
	}
	for role, want := range cases {
		assert.Equal(t, want, role.String())
	}
}
