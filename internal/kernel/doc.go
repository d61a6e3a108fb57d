// Package kernel turns parsed equations into repeatedly-invocable numeric
// kernels and manages their asynchronous compilation.
//
// The pipeline is Bind -> Submit -> Drive:
//
//   - [Bind] resolves every named scalar and cross-particle reference of a
//     parsed equation against the engine schema and the live index set,
//     producing a [Program] with a referenced-index set.
//   - [Loader.Submit] enqueues the program for compilation and returns a
//     [Handle]; the program's particle steps with frozen dynamics until the
//     handle reports [StatusReady].
//   - [Loader.Drive] advances the queue by a bounded amount so callers can
//     interleave compilation with per-frame work; [Loader.AllReady] is a
//     reduction over outstanding handles.
//
// Compiled kernels are flat bytecode run by a small stack VM. Kernels are
// pure: they read only the frame-start snapshot, the evaluating record,
// the simulation clock and the global parameters. Arithmetic follows IEEE
// semantics; NaN and Inf propagate as data.
package kernel
