// Package render turns accumulated fragment state and static configuration
// into the concrete artifacts pushed at the Grafana workload: the datasource
// provisioning document, the [database] section of grafana.ini, and the
// supervisor launch layer.
//
// Every function here is pure and deterministic. Given equal input the
// output is byte-identical, so re-applying after an unchanged event is a
// harmless rewrite of the same content.
package render
