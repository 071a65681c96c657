package metadata

import (
	"context"
	"errors"

	"github.com/avramovs/clientbook/internal/common"
)

// sessionTokenKey is the single metadata key the identity cache uses.
const sessionTokenKey = "session_token"

// TokenStore adapts the metadata repository to the identity cache's
// token-persistence contract.
type TokenStore struct {
	repo Repository
}

func NewTokenStore(repo Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// Load returns the stored session token, or "" when none is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, sessionTokenKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(value), nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, sessionTokenKey, []byte(token))
}

func (s *TokenStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, sessionTokenKey)
}
