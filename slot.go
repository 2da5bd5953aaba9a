package dhash

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotTombstone:
		return "tombstone"
	case slotOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// slot holds one position of the slot store. key and value are only
// meaningful when state is slotOccupied.
type slot struct {
	state slotState
	key   string
	value string
}

func (s *slot) matches(key string) bool {
	return s.state == slotOccupied && s.key == key
}

// bury turns an occupied slot into a tombstone and drops its strings.
func (s *slot) bury() {
	*s = slot{state: slotTombstone}
}
