// Package entity contains the core business objects of the project.
package entity

// DeviceIdentity describes one client endpoint of a user account.
// The ID is fixed once a connection is accepted; Name and Emoji are display
// fields that the device may change later.
type DeviceIdentity struct {
	ID    string `json:"id" validate:"required,max=128"`    // Stable device identifier chosen by the client.
	Name  string `json:"name" validate:"required,max=128"`  // Human readable device name.
	Emoji string `json:"emoji" validate:"omitempty,max=32"` // Avatar shown next to the name.
}
