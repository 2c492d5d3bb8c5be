package gc

// Stats holds collector counters. Objects, Free, Active, Roots and Protected describe
// the current state; the rest accumulate over the collector's lifetime.
type Stats struct {
	Objects int `json:"objects"` // Slots owned (free + active)
	Free    int `json:"free"`    // Slots on the free chain
	Active  int `json:"active"`  // Slots on the active chain

	Roots            int `json:"roots"`             // Root entries in use
	RootEntries      int `json:"root_entries"`      // Root entries ever created (used + recycled)
	Protected        int `json:"protected"`         // Protected entries in use
	ProtectedEntries int `json:"protected_entries"` // Protected entries ever created (used + recycled)

	Allocs              int `json:"allocs"`               // Successful Alloc calls
	Exhausted           int `json:"exhausted"`            // Alloc calls that returned ErrExhausted
	Grows               int `json:"grows"`                // New/Add/MustAlloc growth steps
	Collections         int `json:"collections"`          // Completed mark-sweep passes
	ImplicitCollections int `json:"implicit_collections"` // Passes triggered by Alloc on an empty free chain
	Marked              int `json:"marked"`               // Objects marked, summed over all passes
	Swept               int `json:"swept"`                // Objects reclaimed, summed over all passes
}

// CollectResult describes one mark-sweep pass.
type CollectResult struct {
	Marked int `json:"marked"` // Objects reached from roots and protected variables
	Swept  int `json:"swept"`  // Objects returned to the free chain
}
