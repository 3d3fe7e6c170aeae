//go:build go1.18

package domain

import "testing"

// FuzzParseRecordID checks that parsing never panics and that accepted input
// always yields a positive id that round-trips.
func FuzzParseRecordID(f *testing.F) {
	f.Add("")
	f.Add("1")
	f.Add("9223372036854775807")
	f.Add("9223372036854775808")
	f.Add("-1")
	f.Add("'; DROP TABLE evaluation;--")
	f.Add(" 7\t")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseRecordID(input)
		if err != nil {
			return
		}
		if id <= 0 {
			t.Errorf("accepted non-positive id %d from %q", id, input)
		}
		again, err := ParseRecordID(id.String())
		if err != nil || again != id {
			t.Errorf("round trip failed for %q", input)
		}
	})
}
