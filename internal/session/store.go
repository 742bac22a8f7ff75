// Package session provides the session store backends the wizard
// controller persists its bucket into: an in-memory store for tests, and
// SQLite, Postgres and Redis stores for durable per-user session data.
//
// All backends implement api.Store. A store handle is scoped to one user
// session (one session id) and to one request: writes are staged in memory
// and flushed to durable storage by Save.
package session

// asInt coerces the integer-ish values the codecs round-trip.
// gob hands back int for native ints; SQL paths may surface int64.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
