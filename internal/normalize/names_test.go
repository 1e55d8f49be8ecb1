package normalize

import "testing"

func TestNameAndKeys(t *testing.T) {
	tests := []struct {
		raw       string
		name      string
		key       string
		firstLast string
	}{
		{"Lionel Messi", "lionel messi", "l messi", "lionel messi"},
		{"L. Messi", "l messi", "l messi", "l messi"},
		{"Lionel Andrés Messi", "lionel andres messi", "l messi", "lionel messi"},
		{"Ronaldinho", "ronaldinho", "ronaldinho", "ronaldinho"},
		{"Ángel Di María", "angel di maria", "a maria", "angel maria"},
		{"Juan Román Riquelme (c)", "juan roman riquelme", "j riquelme", "juan riquelme"},
		{"N'Golo Kanté", "n golo kante", "n kante", "n kante"},
		{"Virgil van Dijk", "virgil van dijk", "v dijk", "virgil dijk"},
		{"Lautaro Martínez", "lautaro martinez", "l martinez", "lautaro martinez"},
		{"Lucas Martinez", "lucas martinez", "l martinez", "lucas martinez"},
		{"De La", "de la", "de la", "de la"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name := Name(tt.raw)
			if name != tt.name {
				t.Fatalf("Name(%q) = %q, want %q", tt.raw, name, tt.name)
			}
			if got := NameKey(name); got != tt.key {
				t.Errorf("NameKey(%q) = %q, want %q", name, got, tt.key)
			}
			if got := FirstLast(name); got != tt.firstLast {
				t.Errorf("FirstLast(%q) = %q, want %q", name, got, tt.firstLast)
			}
		})
	}
}

func TestNameEmpty(t *testing.T) {
	if got := Name("  (-)  "); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}

func TestFoldClub(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Club Atlético Boca Juniors", "boca juniors"},
		{"C.A. Vélez Sarsfield", "velez sarsfield"},
		{"Estudiantes (LP)", "estudiantes"},
		{"Newell's Old Boys", "newell s old boys"},
	}
	for _, tt := range tests {
		if got := foldClub(tt.raw); got != tt.want {
			t.Errorf("foldClub(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
