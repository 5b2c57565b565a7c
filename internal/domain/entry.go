package domain

// Entry is one string-keyed record in durable client storage.
type Entry struct {
	Key   string
	Value string
}
