package adapters

// BeaconAdapter submits a final batch during teardown. Implementations must
// not block the caller and must not require a response.
type BeaconAdapter interface {
	// SendBeacon queues events for delivery to endpoint.
	//
	// Returns true if the payload was accepted for delivery.
	SendBeacon(endpoint string, events []Event) bool
}
