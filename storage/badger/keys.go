package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/relevit/core"
)

// Key prefixes for different data types. Passage keys carry the index
// scope so the tenant and shared indexes share a backend without
// sharing keys.
const (
	passagePrefix     = "psgrec"
	searchCachePrefix = "scache"
	usageRecordPrefix = "uselog"
	usageRecordIDSeq  = "uselogseq"
	budgetStatePrefix = "budget"
)

// makePassageKey generates a key for a passage in a scoped index.
// Format: prefix:scope:id
func makePassageKey(scope string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", passagePrefix, scope, id))
}

// makePassageScopePrefix generates the iteration prefix for one index scope.
func makePassageScopePrefix(scope string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", passagePrefix, scope))
}

// makeCacheKey generates a key for a cached search result.
func makeCacheKey(fingerprint core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", searchCachePrefix, fingerprint))
}

// makeUsageKey generates a composite key for a usage record.
// Format: prefix:timestampMicro:id, BigEndian so lexicographic order
// matches chronological order.
func makeUsageKey(tsMicro int64, id core.ID) []byte {
	if tsMicro < 0 {
		tsMicro = 0
	}
	prefix := usageRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tsMicro))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialUsageKey generates a partial key for time range scans.
func makePartialUsageKey(tsMicro int64) []byte {
	// Pre-epoch instants (the zero time included) would wrap to the
	// top of the unsigned keyspace and seek past every record.
	if tsMicro < 0 {
		tsMicro = 0
	}
	prefix := usageRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tsMicro))
	return buf
}

// makeBudgetKey generates a key for one billing period's state.
// Period format: "YYYY-MM".
func makeBudgetKey(period string) []byte {
	return []byte(fmt.Sprintf("%s:%s", budgetStatePrefix, period))
}
