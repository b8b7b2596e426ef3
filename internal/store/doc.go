// Package store defines the persistence interfaces and errors used by the
// application. Implementations live under internal/platform.
package store
