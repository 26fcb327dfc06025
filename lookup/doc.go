// Package lookup provides an in-memory core.Lookup. Embedders register the
// host members they expose, keyed by signature, and map the stable core type
// ids onto host type names so one registration set serves both obfuscated and
// friendly naming.
package lookup
