package optimize

import "testing"

func TestRegistryContainsAllFourPasses(t *testing.T) {
	want := []string{"collapse-increments", "clear-loops", "mul-loops", "dead-code"}
	for _, name := range want {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found in registry", name)
		}
	}
}

func TestLookupUnknownName(t *testing.T) {
	if _, ok := Lookup("not-a-real-pass"); ok {
		t.Error("Lookup of an unregistered name should return ok=false")
	}
}

func TestDefaultPassNamesOmitsClearLoops(t *testing.T) {
	for _, name := range DefaultPassNames {
		if name == "clear-loops" {
			t.Error("DefaultPassNames should omit clear-loops (mul-loops subsumes it)")
		}
	}
}
