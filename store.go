package dhash

// Store is the operation surface shared by Table and Sharded.
type Store interface {
	Insert(key, value string) error
	Search(key string) (string, bool)
	Delete(key string) bool
	Count() int
	Capacity() int
	Close() error
}

// StatsProvider is implemented by stores that expose their counters.
type StatsProvider interface {
	Stats() Stats
}

var (
	_ Store         = (*Table)(nil)
	_ Store         = (*Sharded)(nil)
	_ StatsProvider = (*Table)(nil)
	_ StatsProvider = (*Sharded)(nil)
)
