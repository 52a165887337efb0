package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"passkey_mfa_ms/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChallengeService(t *testing.T) (services.IChallengeService, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return services.NewChallengeService(rdb), mr, rdb
}

func TestChallengeConsumeReturnsIssuedNonce(t *testing.T) {
	cs, _, _ := newChallengeService(t)

	traceID, err := cs.Issue(7, services.ChallengePurposeRegistration, "nonce-1")
	require.NoError(t, err)
	assert.NotEmpty(t, traceID)

	record, err := cs.Consume(7, services.ChallengePurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, "nonce-1", record.Nonce)
	assert.Equal(t, traceID, record.TraceID)
}

func TestChallengeIsSingleUse(t *testing.T) {
	cs, _, _ := newChallengeService(t)

	_, err := cs.Issue(7, services.ChallengePurposeAuthentication, "nonce-1")
	require.NoError(t, err)

	_, err = cs.Consume(7, services.ChallengePurposeAuthentication)
	require.NoError(t, err)

	_, err = cs.Consume(7, services.ChallengePurposeAuthentication)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}

func TestChallengeMissForUnknownEmployee(t *testing.T) {
	cs, _, _ := newChallengeService(t)

	_, err := cs.Consume(99, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}

func TestReissueSupersedesPriorChallenge(t *testing.T) {
	cs, _, _ := newChallengeService(t)

	_, err := cs.Issue(7, services.ChallengePurposeRegistration, "nonce-old")
	require.NoError(t, err)
	_, err = cs.Issue(7, services.ChallengePurposeRegistration, "nonce-new")
	require.NoError(t, err)

	record, err := cs.Consume(7, services.ChallengePurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, "nonce-new", record.Nonce)

	_, err = cs.Consume(7, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}

func TestPurposesDoNotCollide(t *testing.T) {
	cs, _, _ := newChallengeService(t)

	_, err := cs.Issue(7, services.ChallengePurposeRegistration, "nonce-reg")
	require.NoError(t, err)
	_, err = cs.Issue(7, services.ChallengePurposeAuthentication, "nonce-auth")
	require.NoError(t, err)

	record, err := cs.Consume(7, services.ChallengePurposeAuthentication)
	require.NoError(t, err)
	assert.Equal(t, "nonce-auth", record.Nonce)

	record, err = cs.Consume(7, services.ChallengePurposeRegistration)
	require.NoError(t, err)
	assert.Equal(t, "nonce-reg", record.Nonce)
}

func TestChallengeExpiresWithTTL(t *testing.T) {
	cs, mr, _ := newChallengeService(t)

	_, err := cs.Issue(7, services.ChallengePurposeRegistration, "nonce-1")
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	_, err = cs.Consume(7, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}

func TestStaleRecordRejectedEvenIfUnreaped(t *testing.T) {
	// The redis TTL normally reaps expired entries; a record whose payload
	// says it is expired must still be refused if the key lingers.
	cs, _, rdb := newChallengeService(t)

	stale, err := json.Marshal(&services.ChallengeRecord{
		Nonce:     "nonce-stale",
		TraceID:   "trace-stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), "passkey:challenge:registration:7", stale, time.Hour).Err())

	_, err = cs.Consume(7, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}

func TestCorruptRecordTreatedAsMiss(t *testing.T) {
	cs, _, rdb := newChallengeService(t)

	require.NoError(t, rdb.Set(context.Background(), "passkey:challenge:registration:7", "not-json", time.Hour).Err())

	_, err := cs.Consume(7, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)

	// The corrupt entry is gone after the failed consume.
	_, err = cs.Consume(7, services.ChallengePurposeRegistration)
	assert.ErrorIs(t, err, services.ErrNoChallenge)
}
