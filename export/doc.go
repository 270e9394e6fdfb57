// Package export converts graph extracts into external visualization
// formats, currently the node/link JSON shape used by D3 force layouts.
package export
