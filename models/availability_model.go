package models

// AvailabilitySlot is a bookable time slot of a skill.
type AvailabilitySlot struct {
	Slot string `json:"slot" validate:"required"`
	Link string `json:"link"`
}

// SlotView is what catalog readers see for a slot; Link is only set once
// the slot has been booked.
type SlotView struct {
	Slot   string `json:"slot"`
	Link   string `json:"link,omitempty"`
	Booked bool   `json:"booked"`
}
