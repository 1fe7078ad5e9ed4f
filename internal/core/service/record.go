package service

import "github.com/usergraph/friends-api/internal/core/ports"

// recordString returns the named field as a string, or "" when the field is
// missing or not a string.
func recordString(rec ports.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

// recordInt64 returns the named field as an int64. Neo4j integers come back
// as int64; a fake runner may hand us a plain int.
func recordInt64(rec ports.Record, key string) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// recordBool returns the named field as a bool, false when absent.
func recordBool(rec ports.Record, key string) bool {
	b, _ := rec[key].(bool)
	return b
}
