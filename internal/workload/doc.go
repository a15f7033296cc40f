// Package workload is the boundary to the process supervisor running the
// Grafana container. The Gateway interface is what the controller programs
// against; PebbleClient is the production implementation speaking a
// Pebble-style HTTP API over the supervisor's unix socket.
package workload
