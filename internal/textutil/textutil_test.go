package textutil

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"accents", "José Martínez", "jose martinez"},
		{"upper and spaces", "  Thomas   MÜLLER ", "thomas muller"},
		{"stroke letters", "Łukasz Fabiański", "lukasz fabianski"},
		{"slashed o", "Martin Ødegaard", "martin odegaard"},
		{"sharp s", "Straße", "strasse"},
		{"drops non ascii", "Son 손흥민 Heung-min", "son heung-min"},
		{"whitespace only", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenSet(t *testing.T) {
	got := TokenSet("messi lionel messi  andres")
	want := []string{"andres", "lionel", "messi"}
	if len(got) != len(want) {
		t.Fatalf("TokenSet() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TokenSet() = %v, want %v", got, want)
		}
	}
	if TokenSet("   ") != nil {
		t.Fatal("expected nil token set for blank input")
	}
}

func TestFirstLast(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"ronaldinho"}, "ronaldinho"},
		{[]string{"lionel", "andres", "messi"}, "lionel messi"},
	}
	for _, tt := range tests {
		if got := FirstLast(tt.in); got != tt.want {
			t.Errorf("FirstLast(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"empty left", "", "lionel messi", 0},
		{"empty both", "", "", 0},
		{"reordered", "lionel messi", "messi lionel", 100},
		{"subset", "messi", "lionel andres messi", 100},
		{"duplicates ignored", "messi messi lionel", "lionel messi", 100},
		{"disjoint", "abc", "xyz", 0},
		{"initial vs full first name", "l messi", "lionel messi", 83.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSetRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetRatioSymmetricAndBounded(t *testing.T) {
	pairs := [][2]string{
		{"juan roman riquelme", "roman riquelme"},
		{"angel di maria", "angel correa"},
		{"enzo fernandez", "enzo perez"},
		{"kylian mbappe", "kylian mbappe lottin"},
	}
	for _, p := range pairs {
		ab := TokenSetRatio(p[0], p[1])
		ba := TokenSetRatio(p[1], p[0])
		if ab != ba {
			t.Errorf("TokenSetRatio not symmetric for %v: %v vs %v", p, ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Errorf("TokenSetRatio out of range for %v: %v", p, ab)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Round2(Ratio("kitten", "sitting")); got != 61.54 {
		t.Errorf("Ratio(kitten, sitting) = %v, want 61.54", got)
	}
	if got := Ratio("", ""); got != 0 {
		t.Errorf("Ratio of empty strings = %v, want 0", got)
	}
	if got := Ratio("messi", "messi"); got != 100 {
		t.Errorf("Ratio of identical strings = %v, want 100", got)
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "a", "b"); got != "a" {
		t.Errorf("Ternary(true) = %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Errorf("Ternary(false) = %d", got)
	}
}
