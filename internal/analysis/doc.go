// Package analysis defines the interface for turning a photographed study
// note into structured content. It serves as a boundary between the
// application core and external AI/LLM services, following the hexagonal
// architecture pattern.
package analysis
