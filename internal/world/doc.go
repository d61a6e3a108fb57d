// Package world defines the shared data model of the particle engine.
//
// The central type is [ParticleRecord]: a dense, index-addressed record of
// one particle's state. Records live in a store owned by the simulation;
// their Index is the public identity and the target of cross-particle
// references (p[i].x) in equation source.
//
//   - [ParticleRecord]: position, velocity, orientation, mass, charge,
//     shape descriptor and color of one particle
//   - [Snapshot]: immutable frame-stamped copy of all records, the sole
//     input to kernel evaluation for that frame
//   - [BatchUpdate]: sparse host-side overwrite of a record, selected by
//     a [FieldMask]
//   - [Params]: process-wide tunables (gravity, damping, stiffness)
//     consumed by integration and readable from equations
//
// # Index Stability
//
// Removal compacts the store: removing index k shifts all subsequent
// indices down by one. Equation programs capture references by numeric
// index, so the simulation rebinds surviving references and breaks
// programs that referenced the removed index.
package world
