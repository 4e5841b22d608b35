// Package catalogue is the static command table the cache core consults to
// decide whether a command is cacheable and which of its arguments name the
// database keys it depends on. It stands in for the out-of-scope "command
// catalogue" collaborator spec.md describes: the real wire protocol and key
// extraction rules live outside this module.
package catalogue

import "strings"

// Entry describes one command's caching behavior.
type Entry struct {
	// Cacheable is true for deterministic read-only commands whose reply can
	// be safely reused for an identical subsequent call.
	Cacheable bool

	// Flush marks commands that invalidate the entire cache on success
	// (FLUSHDB, FLUSHALL).
	Flush bool

	// KeyPositions lists the zero-based argument indices that name database
	// keys. Ignored when Variadic is true.
	KeyPositions []int

	// Variadic is true when every argument names a database key (e.g.
	// MGET foo bar baz touches {foo, bar, baz}).
	Variadic bool
}

// table is the static allow-list. Commands absent from it default to
// non-cacheable, per spec.md §4.5. Nondeterministic readers (HRANDFIELD,
// SRANDMEMBER, RANDOMKEY) are listed explicitly as non-cacheable so a lookup
// miss and an explicit refusal are both represented the same way to callers.
var table = map[string]Entry{
	"GET":        {Cacheable: true, KeyPositions: []int{0}},
	"MGET":       {Cacheable: true, Variadic: true},
	"HGET":       {Cacheable: true, KeyPositions: []int{0}},
	"HMGET":      {Cacheable: true, KeyPositions: []int{0}},
	"HGETALL":    {Cacheable: true, KeyPositions: []int{0}},
	"SMEMBERS":   {Cacheable: true, KeyPositions: []int{0}},
	"SISMEMBER":  {Cacheable: true, KeyPositions: []int{0}},
	"ZRANGE":     {Cacheable: true, KeyPositions: []int{0}},
	"ZSCORE":     {Cacheable: true, KeyPositions: []int{0}},
	"LRANGE":     {Cacheable: true, KeyPositions: []int{0}},
	"STRLEN":     {Cacheable: true, KeyPositions: []int{0}},
	"EXISTS":     {Cacheable: true, Variadic: true},
	"TYPE":       {Cacheable: true, KeyPositions: []int{0}},
	"TTL":        {Cacheable: true, KeyPositions: []int{0}},

	"HRANDFIELD":  {Cacheable: false},
	"SRANDMEMBER": {Cacheable: false},
	"RANDOMKEY":   {Cacheable: false},

	"FLUSHDB":  {Cacheable: false, Flush: true},
	"FLUSHALL": {Cacheable: false, Flush: true},
}

// Lookup returns the catalogue Entry for a command name (case-insensitive)
// and whether it is present. Absent commands report the zero Entry, which is
// non-cacheable and non-flush.
func Lookup(command string) (Entry, bool) {
	e, ok := table[strings.ToUpper(command)]
	return e, ok
}

// IsCacheable reports whether the named command's replies may be cached.
func IsCacheable(command string) bool {
	e, ok := Lookup(command)
	return ok && e.Cacheable
}

// IsFlush reports whether the named command, on success, invalidates the
// entire cache.
func IsFlush(command string) bool {
	e, ok := Lookup(command)
	return ok && e.Flush
}

// TouchedKeys extracts the database keys an invocation of command with the
// given arguments depends on, per the catalogue's KeyPositions/Variadic
// projection. Arguments are raw byte strings as sent on the wire.
func TouchedKeys(command string, args [][]byte) [][]byte {
	e, ok := Lookup(command)
	if !ok {
		return nil
	}
	if e.Variadic {
		out := make([][]byte, len(args))
		copy(out, args)
		return out
	}
	out := make([][]byte, 0, len(e.KeyPositions))
	for _, pos := range e.KeyPositions {
		if pos < len(args) {
			out = append(out, args[pos])
		}
	}
	return out
}
