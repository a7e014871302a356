package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Forest" || names[1] != "Dusk" {
		t.Fatalf("ThemeNames() = %v, want [Forest Dusk]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Forest"); got != "Dusk" {
		t.Fatalf("NextTheme(Forest) = %q, want Dusk", got)
	}
	if got := NextTheme("Dusk"); got != "Forest" {
		t.Fatalf("NextTheme(Dusk) = %q, want Forest", got)
	}
	if got := NextTheme("Unknown"); got != "Forest" {
		t.Fatalf("NextTheme(Unknown) = %q, want Forest", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Dusk").Name; got != "Dusk" {
		t.Fatalf("GetTheme(Dusk).Name = %q, want Dusk", got)
	}
	if got := GetTheme("Unknown").Name; got != "Forest" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Forest (fallback)", got)
	}
}

func TestThemesComplete(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for field, value := range map[string]string{
			"Background": th.Background, "Surface": th.Surface, "Text": th.Text,
			"Accent": th.Accent, "Danger": th.Danger, "ProgressFrom": th.ProgressFrom,
			"ProgressTo": th.ProgressTo,
		} {
			if value == "" {
				t.Fatalf("%s.%s is empty", name, field)
			}
		}
	}
}
