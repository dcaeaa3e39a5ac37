package firestore

import (
	"context"
	"fmt"

	"google.golang.org/api/iterator"

	"github.com/dvloznov/mono-mirror/internal/domain"
)

// ListActiveUsers returns every user document with active == true. Token
// presence is not filtered here; the orchestrator records token-less users
// as credential failures rather than silently hiding them.
func (s *Store) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	it := s.client.Collection(usersCollection).
		Where("active", "==", true).
		Documents(ctx)
	defer it.Stop()

	var users []domain.User
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListActiveUsers: iterating users: %w", err)
		}

		var u domain.User
		if err := snap.DataTo(&u); err != nil {
			return nil, fmt.Errorf("ListActiveUsers: decoding user %s: %w", snap.Ref.ID, err)
		}
		u.ID = snap.Ref.ID
		users = append(users, u)
	}

	return users, nil
}
