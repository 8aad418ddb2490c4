// Package blastradius scans directories containing Terraform configuration and
// builds a dependency graph over the declared resources, data sources and
// modules.
//
// The graph is assembled from textual references found inside block bodies:
// module "source" attributes and interpolated data./module. addresses. It can
// be represented in several formats:
//   - an interactive HTML page with a d3 force-directed layout
//   - [Graphviz DOT] - rendered to SVG or PNG through the dot binary
//   - a flat JSON document with node and link lists
//
// [Graphviz DOT]: https://graphviz.org/doc/info/lang.html
package blastradius
