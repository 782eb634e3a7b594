package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/emrgen/linkset/internal/compress"
	"github.com/google/uuid"
)

// LinkChange announces that the link set of one source changed. It is only
// published after the change has been committed.
type LinkChange struct {
	ID       uuid.UUID `json:"id"`
	Relation string    `json:"relation"`
	SourceID uint      `json:"source_id"`
	Added    []uint    `json:"added"`
	Removed  []uint    `json:"removed"`
	Actor    *uint     `json:"actor,omitempty"`
	At       time.Time `json:"at"`
}

func NewLinkChange(relation string, sourceID uint, added, removed []uint, actor *uint) *LinkChange {
	if added == nil {
		added = []uint{}
	}
	if removed == nil {
		removed = []uint{}
	}

	return &LinkChange{
		ID:       uuid.New(),
		Relation: relation,
		SourceID: sourceID,
		Added:    added,
		Removed:  removed,
		Actor:    actor,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	// Publish delivers one change notification.
	Publish(ctx context.Context, change *LinkChange) error
	Close() error
}

// Encode serializes change to JSON and compresses it with codec.
func Encode(codec compress.Compress, change *LinkChange) ([]byte, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return nil, err
	}

	return codec.Encode(data)
}

// Decode is the inverse of Encode.
func Decode(codec compress.Compress, payload []byte) (*LinkChange, error) {
	data, err := codec.Decode(payload)
	if err != nil {
		return nil, err
	}

	change := &LinkChange{}
	if err := json.Unmarshal(data, change); err != nil {
		return nil, err
	}

	return change, nil
}
