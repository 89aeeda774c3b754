// Package sim provides the core discrete-event simulation kernel for the
// urgent-care patient-flow model.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - scheduler.go: the event loop — a (time, insertion-order) priority queue
//     that advances the clock and dispatches resumptions
//   - pathway.go: the step vocabulary (set-attribute, delay, seize, release,
//     branch, log) and the engine that runs one entity through a pathway
//   - resource.go: fixed-capacity FCFS server pools with wait and busy
//     accounting
//
// # Architecture
//
// The kernel is scenario-agnostic; the concrete facility lives in
// sub-packages:
//   - sim/clinic/: the urgent-care configuration, trauma and non-trauma
//     pathway construction, and the replication runner
//   - sim/report/: two-level KPI aggregation over monitoring records
//
// Execution is single-threaded and cooperative: exactly one continuation
// runs at a time, suspension happens only at delay and seize-when-full
// steps, and every ordering guarantee derives from the scheduler's
// time+FIFO ordering. Replications share no mutable state and may run in
// parallel with each other.
//
// Every sampling site draws from its own stream (rng.go), derived from the
// replication's master seed and the site name, so the draw count at one
// site never perturbs the sequence at another.
package sim
