package redis

// Key patterns for Redis keys.
const (
	KeyPatternContactClaim = "contact:%s:%016x" // scope, fingerprint
	KeyPatternContactAudit = "contact:%s:audit" // contact id
	KeyContactsRecent      = "contacts:recent"
)
