package redis

import "fmt"

const (
	// KeyPrefixRecord prefixes every record blob: nextdir:record:<collection>:<id>
	KeyPrefixRecord = "nextdir:record:"
	// KeyPrefixIndex prefixes the id set of a collection: nextdir:records:<collection>
	KeyPrefixIndex = "nextdir:records:"
)

// RecordKey returns the Redis key holding one record
func RecordKey(collection, id string) string {
	return KeyPrefixRecord + collection + ":" + id
}

// IndexKey returns the key for the set of all ids in a collection
func IndexKey(collection string) string {
	return KeyPrefixIndex + collection
}

// ExtractRecordID extracts the record id from a record key
func ExtractRecordID(collection, key string) (string, error) {
	prefix := KeyPrefixRecord + collection + ":"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return "", fmt.Errorf("invalid record key for %s: %s", collection, key)
	}
	return key[len(prefix):], nil
}
