// Package quota enforces a fixed number of generation requests per user per
// UTC calendar day.
//
// # Usage
//
//	store, err := quota.NewMemoryStore(3)
//	decision, err := store.CheckAndConsume(ctx, "user-1", time.Now())
//	if !decision.Allowed() {
//	    // reject with 429
//	}
//
// A request is counted before generation runs and is never refunded, so a
// failed generation still consumes quota.
//
// # Eviction
//
// A record from a past day behaves exactly like no record. The Sweeper
// deletes such records on a cron schedule to keep memory bounded; it never
// touches today's records, so sweeping cannot change a decision.
//
//	sweeper := quota.NewSweeper(store, quota.SweeperConfig{
//	    Schedule:      "0 * * * *",
//	    RetentionDays: 1,
//	})
//	err := sweeper.Start(ctx)
package quota
