package ephemeral_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubconnect/entity"
	"clubconnect/internal/ephemeral"
)

func TestChallengeVerify(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeySignupOtp("student@gvpce.ac.in")

	require.NoError(t, ephemeral.StartChallenge(store, key, "482913", 5*time.Minute))

	err := ephemeral.VerifyChallenge(store, key, "482913")
	require.NoError(t, err)

	// consumed: the same code cannot be used twice
	err = ephemeral.VerifyChallenge(store, key, "482913")
	assert.ErrorIs(t, err, entity.ErrOtpExpired)
}

func TestChallengeWrongCodeLockout(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeySignupOtp("student@gvpce.ac.in")

	require.NoError(t, ephemeral.StartChallenge(store, key, "482913", 5*time.Minute))

	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "000000"), entity.ErrOtpInvalid)
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "111111"), entity.ErrOtpInvalid)
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "222222"), entity.ErrOtpLockout)

	// the lockout deleted the challenge, so even the right code fails now
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "482913"), entity.ErrOtpExpired)
}

func TestChallengeExpiry(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeyDeleteOtp("student@gvpce.ac.in")

	now := time.Now()
	require.NoError(t, ephemeral.StartChallenge(store, key, "482913", 5*time.Minute))

	store.SetClock(func() time.Time { return now.Add(6 * time.Minute) })
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "482913"), entity.ErrOtpExpired)
}

func TestChallengeResendCap(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeySignupOtp("student@gvpce.ac.in")

	require.NoError(t, ephemeral.StartChallenge(store, key, "111111", 5*time.Minute))
	require.NoError(t, ephemeral.StartChallenge(store, key, "222222", 5*time.Minute))
	require.NoError(t, ephemeral.StartChallenge(store, key, "333333", 5*time.Minute))
	require.NoError(t, ephemeral.StartChallenge(store, key, "444444", 5*time.Minute))

	// fourth resend exceeds the cap
	assert.ErrorIs(t, ephemeral.StartChallenge(store, key, "555555", 5*time.Minute), entity.ErrOtpLockout)

	// only the newest code is valid
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "111111"), entity.ErrOtpInvalid)
	assert.NoError(t, ephemeral.VerifyChallenge(store, key, "444444"))
}

func TestChallengeResendResetsAttempts(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeySignupOtp("student@gvpce.ac.in")

	require.NoError(t, ephemeral.StartChallenge(store, key, "111111", 5*time.Minute))
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "999999"), entity.ErrOtpInvalid)
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "999999"), entity.ErrOtpInvalid)

	require.NoError(t, ephemeral.StartChallenge(store, key, "222222", 5*time.Minute))

	// the resend granted a fresh attempt budget
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "999999"), entity.ErrOtpInvalid)
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "999999"), entity.ErrOtpInvalid)
	assert.ErrorIs(t, ephemeral.VerifyChallenge(store, key, "999999"), entity.ErrOtpLockout)
}

func TestPeekDoesNotConsume(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	key := ephemeral.KeyResetOtp("student@gvpce.ac.in")

	require.NoError(t, ephemeral.StartChallenge(store, key, "482913", 10*time.Minute))

	require.NoError(t, ephemeral.PeekChallenge(store, key, "482913"))
	require.NoError(t, ephemeral.PeekChallenge(store, key, "482913"))

	// still alive for the consuming verification
	assert.NoError(t, ephemeral.VerifyChallenge(store, key, "482913"))
}

func TestMemoryStoreSweep(t *testing.T) {
	store := ephemeral.NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Put("a", 1, time.Minute))
	require.NoError(t, store.Put("b", 2, time.Hour))

	store.SetClock(func() time.Time { return now.Add(30 * time.Minute) })
	assert.Equal(t, 1, store.Sweep())

	var v int
	assert.NoError(t, store.Get("b", &v))
	assert.Equal(t, 2, v)
	assert.ErrorIs(t, store.Get("a", &v), entity.ErrNotFound)
}
