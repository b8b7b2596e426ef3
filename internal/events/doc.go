// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components in the system. The review service emits
// save-outcome events without knowing which handlers will process them; the
// API layer registers handlers that surface user-facing alerts, and other
// handlers may log or count outcomes.
//
// The primary components are:
// - SaveOutcomeEvent: Reports the result of a background persistence attempt
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
