// Package identity derives the canonical matching key used to decide
// whether two source records refer to the same subscription.
//
// The key is purely structural: lower-cased with spaces, hyphens and
// underscores removed. "Net Flix" and "net-flix" collide; "Netflix" and
// "NFLX" do not. Synonym resolution is intentionally out of scope.
package identity

import "strings"

var stripper = strings.NewReplacer(" ", "", "-", "", "_", "")

// Normalize maps a free-text vendor or subscription name to its canonical
// key. Any input, including the empty string, yields a (possibly empty) key.
func Normalize(name string) string {
	return stripper.Replace(strings.ToLower(name))
}
