package events

import "github.com/easyslot/easyslot/internal/entities"

var SlotFoundTopic = "SlotFoundEvent"

type SlotFound struct {
	Email string
	Slot  entities.SlotResult
}
