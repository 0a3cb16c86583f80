package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/tally/internal/auth"
)

func newGate(t *testing.T, codes map[auth.Role]string) *auth.Gate {
	t.Helper()
	g, err := auth.NewGate(codes, auth.WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	return g
}

func TestVerify(t *testing.T) {
	g := newGate(t, map[auth.Role]string{auth.Admin: "1111", auth.Staff: "2222"})

	assert.NoError(t, g.Verify(auth.Admin, "1111"))
	assert.ErrorIs(t, g.Verify(auth.Admin, "2222"), auth.ErrDenied)
	assert.NoError(t, g.Verify(auth.Staff, "2222"))

	role, err := g.VerifyAny("2222", auth.Staff, auth.Admin)
	require.NoError(t, err)
	assert.Equal(t, auth.Staff, role)

	_, err = g.VerifyAny("0000", auth.Staff, auth.Admin)
	assert.ErrorIs(t, err, auth.ErrDenied)
}

func TestPreHashedCodes(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("4242"), bcrypt.MinCost)
	require.NoError(t, err)

	g := newGate(t, map[auth.Role]string{auth.Admin: string(hashed)})
	assert.NoError(t, g.Verify(auth.Admin, "4242"))
	assert.ErrorIs(t, g.Verify(auth.Staff, "4242"), auth.ErrDenied)
}

func TestRejectsBadCodes(t *testing.T) {
	_, err := auth.NewGate(map[auth.Role]string{auth.Admin: ""})
	assert.Error(t, err)

	_, err = auth.NewGate(map[auth.Role]string{auth.Admin: "$2a$broken"})
	assert.Error(t, err)
}

func TestHashFeedsGate(t *testing.T) {
	hashed, err := auth.Hash("9876")
	require.NoError(t, err)
	assert.NotContains(t, hashed, "9876")

	g := newGate(t, map[auth.Role]string{auth.Staff: hashed})
	assert.NoError(t, g.Verify(auth.Staff, "9876"))
	assert.ErrorIs(t, g.Verify(auth.Staff, "6789"), auth.ErrDenied)

	_, err = auth.Hash("")
	assert.Error(t, err)
}
