package tool

import "testing"

func TestParseParamsSplitsWhitespaceSeparatedPairs(t *testing.T) {
	got := parseParams("start=2 duration=5 label=golden_hour")

	want := map[string]string{"start": "2", "duration": "5", "label": "golden_hour"}

	if len(got) != len(want) {
		t.Fatalf("expected %d params, got %d (%v)", len(want), len(got), got)
	}

	for k, v := range want {
		if got[k] != v {
			t.Fatalf("param %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseParamsIgnoresTokensWithoutEquals(t *testing.T) {
	got := parseParams("start=2 garbage duration=5")

	if _, ok := got["garbage"]; ok {
		t.Fatal("expected a bare token without \"=\" to be ignored")
	}

	if got["start"] != "2" || got["duration"] != "5" {
		t.Fatalf("expected surrounding valid params to still parse, got %v", got)
	}
}

func TestParseParamsEmptyStringYieldsEmptyMap(t *testing.T) {
	got := parseParams("")

	if len(got) != 0 {
		t.Fatalf("expected empty map for empty input, got %v", got)
	}
}
