package calls

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"09876543210", "9876543210"},
		{"919876543210", "9876543210"},
		{"+919876543210", "9876543210"},
		{"+91 98765-43210", "9876543210"},
		{"0091 9876543210", "9876543210"},
		{"", ""},
		{"abc", ""},
		// A bare 10-digit number starting with 91 is kept as-is.
		{"9198765432", "9198765432"},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSamePhone(t *testing.T) {
	if !SamePhone("+919876543210", "09876543210") {
		t.Error("expected numbers to match across prefixes")
	}
	if SamePhone("", "") {
		t.Error("empty numbers must not match")
	}
	if SamePhone("9876543210", "9876543211") {
		t.Error("different numbers must not match")
	}
}
