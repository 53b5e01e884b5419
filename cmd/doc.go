// Package cmd implements the command-line interface of zcrpc. It provides a
// hierarchical command structure for running the server and calling it as a
// client.
//
// The package is organized into several subpackages:
//
//   - serve: starts and configures the zcrpc server
//   - call: calls the echo, sum and info services, plus a perf command that
//     benchmarks them
//   - inspect: prints the segment layout of a serialized protocol message
//   - util: shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through a ZCRPC_ prefixed environment variable or
// a .env file. See zcrpc -help for a list of all commands.
package cmd
