// Package core resolves a fixed set of abstract block-entity operations to the
// concrete host members valid for the detected host release, and exposes them
// through a version-independent facade. Adapter packages depend on core; core
// must not depend on any concrete lookup or transport implementation.
package core
