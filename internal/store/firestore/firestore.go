// Package firestore implements the store gateways on Cloud Firestore, using
// the per-user document layout:
//
//	users/{uid}
//	users/{uid}/accounts/{accountID}
//	users/{uid}/accounts/{accountID}/transactions/{txID}
//	users/{uid}/sync_state/{accountID}
//
// Transactions carry denormalized user_id/account_id fields so daily report
// reads run as one collection-group query across all of a user's accounts.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

const (
	usersCollection        = "users"
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
	syncStateCollection    = "sync_state"
)

// Store implements store.UserDirectory, store.AccountStore,
// store.TransactionStore and store.SyncStateStore over one shared Firestore
// client.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Store with a shared Firestore client.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Store) userDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

func (s *Store) accountDoc(userID, accountID string) *firestore.DocumentRef {
	return s.userDoc(userID).Collection(accountsCollection).Doc(accountID)
}
