package mapstate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// PassLog describes one regeneration pass over every map.
type PassLog struct {
	ID        uuid.UUID
	Pattern   string
	Seed      uint64
	StartedAt time.Time
	Duration  time.Duration
	Maps      []MapDigest
}

// MapDigest is the outcome of one map within a pass.
type MapDigest struct {
	Map       string
	Digest    []byte
	Bosses    int
	Waves     int
	Triggered int
}

// PassRecorder persists pass logs.
type PassRecorder interface {
	RecordPass(ctx context.Context, pass PassLog) error
}

// Digest hashes the encoded form of b. Equal schedules give equal digests.
func Digest(b Base) ([]byte, error) {
	data, err := EncodeBase(b)
	if err != nil {
		return nil, fmt.Errorf("digest of map %s: %w", b.Id, err)
	}
	sum := blake2b.Sum256(data)
	return sum[:], nil
}
