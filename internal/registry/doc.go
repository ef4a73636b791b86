// Package registry owns every quantity, unit, prefix and measurement system of
// one independent unit world. It enforces name and symbol uniqueness per name
// bucket, canonicalizes quantities by composition, deduplicates prefixed
// units, links scalar entities to their vector analogs and drives
// dependency-ordered disposal.
//
// Entities live in arena maps owned by the Registry and are addressed through
// small comparable handles (Quantity, Unit, Prefix, MeasurementSystem). A
// Registry is not safe for concurrent mutation; callers serialize access.
package registry
