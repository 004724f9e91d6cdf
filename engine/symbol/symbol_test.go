package symbol

import "testing"

func TestInternStable(t *testing.T) {
	tab := New(8)
	a := tab.Intern("foo")
	b := tab.Intern("foo")
	if a != b {
		t.Errorf("Intern did not return stable id, got %d and %d", a, b)
	}
}

func TestCaseAlias(t *testing.T) {
	tab := New(8)
	lower := tab.Intern("bar")
	upper := tab.Intern("BAR")
	if lower == upper {
		t.Errorf("expected distinct ids for distinct spellings, got %d for both", lower)
	}
	if !tab.CaseEqual(lower, upper) {
		t.Errorf("expected bar and BAR to be case-equal")
	}
	if tab.Canonical(lower) != tab.Canonical(upper) {
		t.Errorf("expected same canonical id, got %d and %d", tab.Canonical(lower), tab.Canonical(upper))
	}
}

func TestLookupMissing(t *testing.T) {
	tab := New(8)
	tab.Intern("known")
	if _, ok := tab.Lookup("unknown"); ok {
		t.Errorf("expected unknown word to not be found")
	}
	if id, ok := tab.Lookup("known"); !ok || tab.Name(id) != "known" {
		t.Errorf("expected known word to resolve, got %d ok=%v", id, ok)
	}
}

func TestRehashPreservesIdentity(t *testing.T) {
	tab := New(2)
	ids := make(map[string]ID)
	for i := 0; i < 200; i++ {
		name := wordName(i)
		ids[name] = tab.Intern(name)
	}
	for name, id := range ids {
		if got := tab.Intern(name); got != id {
			t.Errorf("id for %q changed after rehash: had %d, now %d", name, id, got)
		}
	}
}

func wordName(i int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%26]) + string(letters[(i/26)%26]) + string(letters[(i/676)%26])
}
