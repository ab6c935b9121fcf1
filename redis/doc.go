// Package redis provides the Redis-backed adapters for confsync: a
// durable namespace store over Redis hashes and a broadcast transport
// over Redis pub/sub, plus a retrying Connect helper and a healthcheck
// probe.
//
// One connected client serves both roles:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	store, err := confsync.New("billing",
//	    redis.NewHashStore(client),
//	    redis.NewPubSub(client),
//	)
//
// Each namespace lives in a single Redis hash (HGETALL on bootstrap,
// HSET/HDEL on writes), and change envelopes travel over two pub/sub
// channels per namespace. Redis pub/sub delivers only to currently
// connected subscribers with no replay, which matches the store's
// best-effort propagation model: a peer that was disconnected converges
// on its next bootstrap pull.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
package redis
