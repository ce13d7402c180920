// Package megantax converts NCBI taxonomy dumps into MEGAN tree and map
// files and maintains the accession to taxonomy mapping database.
package megantax

var (
	// Version of megantax, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
