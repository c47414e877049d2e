// Package repository defines the composite-score store interface and errors.
package repository

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets how many shards candidate IDs are hashed across.
func WithShardCount(count int) Option {
	return func(s *ShardStore) {
		if count > 0 {
			s.shardCount = count
		}
	}
}
