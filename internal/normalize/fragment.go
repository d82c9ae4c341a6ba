// Package normalize holds the pure string transformations applied to
// address text: block/lot fragment extraction for the Circuit export
// and the canonicalizer that produces the "STREET, BLOCK-LOT" form the
// geocoding pipeline works with.
package normalize

import "regexp"

// A block/lot fragment is a comma followed by two hyphen-separated
// tokens of digits with an optional uppercase suffix, anywhere in the
// normalized address: "Rua das Flores, 12-34" -> ("12", "34").
var reBlockLot = regexp.MustCompile(`,\s*([0-9]+[A-Z]*)-([0-9]+[A-Z]*)`)

// ExtractBlockLot parses a block/lot pair out of a normalized address.
// No match returns two empty strings, never an error. Pure; invoked
// once per record per export and deliberately not cached, since
// addresses are not expected to repeat across coordinates.
func ExtractBlockLot(address string) (block, lot string) {
	m := reBlockLot.FindStringSubmatch(address)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}
