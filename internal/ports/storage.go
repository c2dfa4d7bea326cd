package ports

// KeyValueStore is the platform storage abstraction behind every repository.
// The shape mirrors fyne.Preferences: reads never fail (an absent key yields
// the zero value or the supplied fallback) and writes are fire-and-forget.
// A write that cannot be made durable must not crash the caller; in-memory
// state remains authoritative for the rest of the session.
//
// Each storage key is owned by exactly one repository; no two components
// write the same key.
//
// Thread-safety: implementations must be safe for concurrent use.
type KeyValueStore interface {
	// String returns the value for key, or "" when absent.
	String(key string) string

	// StringWithFallback returns the value for key, or fallback when absent.
	StringWithFallback(key, fallback string) string

	// SetString stores a string value.
	SetString(key, value string)

	// Int returns the value for key, or 0 when absent.
	Int(key string) int

	// SetInt stores an integer value.
	SetInt(key string, value int)

	// Bool returns the value for key, or false when absent.
	Bool(key string) bool

	// BoolWithFallback returns the value for key, or fallback when absent.
	BoolWithFallback(key string, fallback bool) bool

	// SetBool stores a boolean value.
	SetBool(key string, value bool)

	// RemoveValue deletes a key. Removing an absent key is a no-op.
	RemoveValue(key string)
}
