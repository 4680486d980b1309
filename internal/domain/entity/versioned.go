package entity

// Versioned carries the optimistic-lock counter. Embed it anonymously; the
// store bumps it on every successful save and rejects saves with a stale value.
type Versioned struct {
	Version int64
}

func (v *Versioned) GetVersion() int64  { return v.Version }
func (v *Versioned) SetVersion(n int64) { v.Version = n }
