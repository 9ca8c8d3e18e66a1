// Package sim provides a next-event discrete-event simulator for queueing
// networks: jobs arrive at a station, receive exponential service at
// single-server FIFO stations, and hop between stations according to a
// probabilistic routing table until they exit the network.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: the event types and the deterministic event queue
//   - station.go: single-server FIFO service centers
//   - simulation.go: the run configuration and the event loop
//
// Routing lives in table.go (the static routing table) and router.go (the
// probabilistic router with precomputed per-(station, class) CDFs).
//
// # Sub-packages
//
//   - sim/rng: the multi-stream Lehmer generator every stochastic choice
//     draws from. Each concern (arrivals, each station's service times,
//     routing) owns a dedicated stream so the concerns cannot perturb each
//     other's sequences.
//   - sim/dist: the distribution library (uniform, exponential, Gaussian,
//     Erlang, hyper-exponential, Poisson, binomial, Bernoulli, geometric,
//     discrete uniform), all polymorphic over rng.UniformSource.
//
// # Determinism
//
// For a fixed seed and configuration a run is exactly reproducible: the
// event queue breaks timestamp ties by insertion order and every random
// draw comes from an explicitly owned stream. Generators, routers, and
// simulations are not synchronized internally; run independent simulations
// in parallel instead of sharing one.
package sim
