package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/store"
)

// GetAccount fetches one account document, or store.ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	snap, err := s.accountDoc(userID, accountID).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetAccount: %s/%s: %w", userID, accountID, err)
	}

	var acc domain.Account
	if err := snap.DataTo(&acc); err != nil {
		return nil, fmt.Errorf("GetAccount: decoding %s/%s: %w", userID, accountID, err)
	}
	acc.ID = snap.Ref.ID
	return &acc, nil
}

// ListAccounts returns all of the user's account documents.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	it := s.userDoc(userID).Collection(accountsCollection).Documents(ctx)
	defer it.Stop()

	var accounts []domain.Account
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: iterating %s: %w", userID, err)
		}

		var acc domain.Account
		if err := snap.DataTo(&acc); err != nil {
			return nil, fmt.Errorf("ListAccounts: decoding %s/%s: %w", userID, snap.Ref.ID, err)
		}
		acc.ID = snap.Ref.ID
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// BatchUpsertAccounts writes the accounts keyed by id through a BulkWriter.
// Each Set is a full-document upsert; the caller (the mapper) has already
// merged app-owned fields into the records.
func (s *Store) BatchUpsertAccounts(ctx context.Context, userID string, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(accounts))
	for _, acc := range accounts {
		job, err := bw.Set(s.accountDoc(userID, acc.ID), acc)
		if err != nil {
			bw.End()
			return fmt.Errorf("BatchUpsertAccounts: queueing %s/%s: %w", userID, acc.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("BatchUpsertAccounts: writing %s/%s: %w", userID, accounts[i].ID, err)
		}
	}
	return nil
}
