package entities

// SlotResult is one open appointment slot seen during a check cycle. Results
// are ephemeral: they drive notifications and the state update of the cycle
// that produced them and are not persisted individually.
type SlotResult struct {
	City       string
	Date       string
	Time       string
	AutoBooked bool
}
