package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/mono-mirror/internal/domain"
)

// BatchUpsertTransactions writes one statement page keyed by transaction id.
// Re-running the same page is a no-op apart from refreshing provider-owned
// fields, which is what makes crash-and-rerun safe.
func (s *Store) BatchUpsertTransactions(ctx context.Context, userID, accountID string, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	col := s.accountDoc(userID, accountID).Collection(transactionsCollection)

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(txs))
	for _, tx := range txs {
		job, err := bw.Set(col.Doc(tx.ID), tx)
		if err != nil {
			bw.End()
			return fmt.Errorf("BatchUpsertTransactions: queueing %s: %w", tx.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("BatchUpsertTransactions: writing %s: %w", txs[i].ID, err)
		}
	}
	return nil
}

// ListTransactionsByTimeRange runs a collection-group query across all of the
// user's accounts, time-ascending and inclusive at both ends. Requires the
// composite index on (user_id, time).
func (s *Store) ListTransactionsByTimeRange(ctx context.Context, userID string, from, to int64) ([]domain.Transaction, error) {
	it := s.client.CollectionGroup(transactionsCollection).
		Where("user_id", "==", userID).
		Where("time", ">=", from).
		Where("time", "<=", to).
		OrderBy("time", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var txs []domain.Transaction
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactionsByTimeRange: iterating %s: %w", userID, err)
		}

		var tx domain.Transaction
		if err := snap.DataTo(&tx); err != nil {
			return nil, fmt.Errorf("ListTransactionsByTimeRange: decoding %s: %w", snap.Ref.ID, err)
		}
		tx.ID = snap.Ref.ID
		txs = append(txs, tx)
	}

	return txs, nil
}
