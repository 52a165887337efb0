package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"passkey_mfa_ms/util"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

const (
	ChallengePurposeRegistration   = "registration"
	ChallengePurposeAuthentication = "authentication"

	// A ceremony must complete within this window or restart from scratch.
	challengeTTL = 5 * time.Minute
)

// ErrNoChallenge is returned whether a challenge never existed, was already
// consumed, or expired. Callers must not be able to tell these apart.
var ErrNoChallenge = errors.New("no live challenge")

type ChallengeRecord struct {
	Nonce     string    `json:"nonce"`
	TraceID   string    `json:"trace_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type IChallengeService interface {
	Issue(employeeID uint, purpose string, nonce string) (string, error)
	Consume(employeeID uint, purpose string) (*ChallengeRecord, error)
}

type ChallengeService struct {
	rdb *redis.Client
}

func NewChallengeService(rdb *redis.Client) IChallengeService {
	return &ChallengeService{rdb: rdb}
}

func challengeKey(employeeID uint, purpose string) string {
	return fmt.Sprintf("passkey:challenge:%s:%d", purpose, employeeID)
}

// Issue persists a fresh challenge for (employee, purpose) and returns its
// trace id. SETEX overwrites any prior entry, so at most one challenge per
// pair is ever live and a repeated start invalidates the earlier nonce.
func (s *ChallengeService) Issue(employeeID uint, purpose string, nonce string) (string, error) {
	traceID := util.NewTraceID()
	record := ChallengeRecord{
		Nonce:     nonce,
		TraceID:   traceID,
		ExpiresAt: time.Now().Add(challengeTTL),
	}
	data, err := json.Marshal(&record)
	if err != nil {
		return "", err
	}
	if err := s.rdb.SetEx(ctx, challengeKey(employeeID, purpose), data, challengeTTL).Err(); err != nil {
		return "", err
	}
	return traceID, nil
}

// Consume atomically removes and returns the live challenge. GETDEL keeps
// double-spends impossible even under concurrent completion attempts; the
// redis TTL reaps expired entries and the ExpiresAt check covers entries
// the reaper has not collected yet.
func (s *ChallengeService) Consume(employeeID uint, purpose string) (*ChallengeRecord, error) {
	val, err := s.rdb.GetDel(ctx, challengeKey(employeeID, purpose)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoChallenge
		}
		return nil, err
	}
	var record ChallengeRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, ErrNoChallenge
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrNoChallenge
	}
	return &record, nil
}
