package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkm/jobcards/internal/core/ports"
)

const draftTTL = 2 * time.Hour

// DraftStore keeps job creation wizard drafts between requests.
// Key format: jobcards:wizard:<sid>
type DraftStore struct {
	client redis.Cmdable
}

// NewDraftStore creates a DraftStore wrapping the given Redis client.
func NewDraftStore(client redis.Cmdable) *DraftStore {
	return &DraftStore{client: client}
}

// Load returns the draft for sid, or a fresh one when none is stored.
func (d *DraftStore) Load(ctx context.Context, sid string) (*ports.WizardDraft, error) {
	raw, err := d.client.Get(ctx, draftKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.NewWizardDraft(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft ports.WizardDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		// A draft we cannot read is abandoned rather than blocking the wizard.
		return ports.NewWizardDraft(), nil
	}
	if draft.Stage != ports.StageCapture {
		draft.Stage = ports.StageLookup
	}
	return &draft, nil
}

// Save stores draft for sid (expires after draftTTL).
func (d *DraftStore) Save(ctx context.Context, sid string, draft *ports.WizardDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := d.client.Set(ctx, draftKey(sid), raw, draftTTL).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Clear drops the draft for sid.
func (d *DraftStore) Clear(ctx context.Context, sid string) error {
	return d.client.Del(ctx, draftKey(sid)).Err()
}

func draftKey(sid string) string {
	return fmt.Sprintf("jobcards:wizard:%s", sid)
}
