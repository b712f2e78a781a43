package eval

import "testing"

func TestToken(t *testing.T) {
	tok := Token("hello")
	if tok.Len() != 5 {
		t.Errorf("Len = %d, want 5", tok.Len())
	}
	if tok.IsEmpty() {
		t.Error("non-empty token reported empty")
	}
	if tok.String() != "hello" {
		t.Errorf("String = %q, want %q", tok.String(), "hello")
	}

	var empty Token
	if !empty.IsEmpty() {
		t.Error("zero token should be empty")
	}
	if empty.Len() != 0 {
		t.Errorf("empty Len = %d, want 0", empty.Len())
	}
}

func TestEncodeBool(t *testing.T) {
	if EncodeBool(true) != 1 {
		t.Error("EncodeBool(true) != 1")
	}
	if EncodeBool(false) != 0 {
		t.Error("EncodeBool(false) != 0")
	}
	if !DecodeBool(EncodeBool(true)) {
		t.Error("round trip lost true")
	}
	if DecodeBool(EncodeBool(false)) {
		t.Error("round trip lost false")
	}
}

func TestOrdering(t *testing.T) {
	cases := []struct {
		o       Ordering
		str     string
		encoded uint64
	}{
		{Less, "less", 0},
		{Equal, "equal", 1},
		{Greater, "greater", 2},
	}

	for _, tc := range cases {
		t.Run(tc.str, func(t *testing.T) {
			if tc.o.String() != tc.str {
				t.Errorf("String = %s, want %s", tc.o.String(), tc.str)
			}
			if tc.o.Encode() != tc.encoded {
				t.Errorf("Encode = %d, want %d", tc.o.Encode(), tc.encoded)
			}
			if DecodeOrdering(tc.encoded) != tc.o {
				t.Errorf("DecodeOrdering(%d) = %v, want %v", tc.encoded, DecodeOrdering(tc.encoded), tc.o)
			}
		})
	}

	if Ordering(7).String() != "ordering(7)" {
		t.Errorf("out-of-range String = %s", Ordering(7).String())
	}
}

func TestOrderingFromCompare(t *testing.T) {
	if OrderingFromCompare(-42) != Less {
		t.Error("negative compare should map to Less")
	}
	if OrderingFromCompare(0) != Equal {
		t.Error("zero compare should map to Equal")
	}
	if OrderingFromCompare(3) != Greater {
		t.Error("positive compare should map to Greater")
	}
}
