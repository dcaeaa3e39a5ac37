package firestore

import (
	"context"
	"fmt"
	"time"
)

// syncStateDoc is the stored watermark for one (user, account) pair. It lives
// in its own subcollection so account upserts can never clobber it.
type syncStateDoc struct {
	LastSyncedAt int64     `firestore:"last_synced_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

// GetWatermark returns the account's watermark and whether one exists yet.
func (s *Store) GetWatermark(ctx context.Context, userID, accountID string) (int64, bool, error) {
	snap, err := s.userDoc(userID).Collection(syncStateCollection).Doc(accountID).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("GetWatermark: %s/%s: %w", userID, accountID, err)
	}

	var doc syncStateDoc
	if err := snap.DataTo(&doc); err != nil {
		return 0, false, fmt.Errorf("GetWatermark: decoding %s/%s: %w", userID, accountID, err)
	}
	return doc.LastSyncedAt, true, nil
}

// SetWatermark persists the watermark. Callers only invoke this after the
// corresponding transaction batch committed, and only with non-decreasing
// values.
func (s *Store) SetWatermark(ctx context.Context, userID, accountID string, ts int64) error {
	doc := syncStateDoc{LastSyncedAt: ts, UpdatedAt: time.Now().UTC()}
	if _, err := s.userDoc(userID).Collection(syncStateCollection).Doc(accountID).Set(ctx, doc); err != nil {
		return fmt.Errorf("SetWatermark: %s/%s: %w", userID, accountID, err)
	}
	return nil
}
