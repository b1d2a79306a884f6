// Package sample provides attractor samplers and containment volumes.
//
// Every sampler is an infinite, non-restartable stream: Next always returns a
// point and never blocks. Each sampler owns its own random stream seeded at
// construction, so a fixed seed yields a fixed sequence.
//
// Samplers that reject draws against arbitrary volumes (Crown and Halton)
// carry a low-yield valve: after 200 draws with fewer than 1% accepted they
// stop rejecting and accept every further draw. FailedOpen reports when that
// happened.
package sample
