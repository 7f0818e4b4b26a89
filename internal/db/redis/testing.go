package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client (typically a gomock one).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
