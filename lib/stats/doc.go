// Package stats holds the go-metrics histograms used to report on payload
// sizes and load spread, e.g. by the perf command and the RPC server.
//
// Key Components:
//
//   - NewSizeHistogram: a histogram over an exponentially decaying reservoir,
//     biased towards recent samples. Safe for concurrent use.
//
//   - NewSpreadHistogram: a histogram that keeps every sample up to its
//     reservoir size, used for small sets like per-thread counters.
//
//   - Balance: a score for how evenly work was spread over the samples of a
//     histogram.
package stats
