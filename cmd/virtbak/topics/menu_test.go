package topics

import "testing"

func TestIsYes(t *testing.T) {
	for _, answer := range []string{"y", "Y", "yes", "Yes", "YES"} {
		if !isYes(answer) {
			t.Errorf("%q not accepted as yes", answer)
		}
	}
	for _, answer := range []string{"", "n", "no", "yep", "oui"} {
		if isYes(answer) {
			t.Errorf("%q accepted as yes", answer)
		}
	}
}
