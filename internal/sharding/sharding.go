package sharding

// ShardRouter maps a user id to an order shard. Sharding by user keeps a
// user's full order history on a single database, so per-user listing and
// diet-order counting stay single-shard queries.
type ShardRouter struct {
	ShardCount int // Number of shards
}

func NewShardRouter(shardCount int) *ShardRouter {
	return &ShardRouter{ShardCount: shardCount}
}

func (r *ShardRouter) GetShard(userID int) int {
	return userID % r.ShardCount
}
