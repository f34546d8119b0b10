// ABOUTME: Tests for CLI flag helpers: channel spec parsing and list splitting.
// ABOUTME: Covers valid spec grammar variants and malformed inputs.
package main

import "testing"

func TestParseChannelSpecs(t *testing.T) {
	specs, err := parseChannelSpecs("BaseColor:16,Roughness:8:scalar,Height:32:scalar:8192")
	if err != nil {
		t.Fatalf("parseChannelSpecs failed: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(specs))
	}

	if specs[0].Name != "BaseColor" || specs[0].Depth != 16 || specs[0].Scalar || specs[0].Size != 0 {
		t.Errorf("specs[0] = %+v", specs[0])
	}
	if specs[1].Name != "Roughness" || specs[1].Depth != 8 || !specs[1].Scalar {
		t.Errorf("specs[1] = %+v", specs[1])
	}
	if specs[2].Name != "Height" || specs[2].Depth != 32 || !specs[2].Scalar || specs[2].Size != 8192 {
		t.Errorf("specs[2] = %+v", specs[2])
	}
}

func TestParseChannelSpecsSizeWithoutScalar(t *testing.T) {
	specs, err := parseChannelSpecs("Normal:16:2048")
	if err != nil {
		t.Fatalf("parseChannelSpecs failed: %v", err)
	}
	if specs[0].Scalar || specs[0].Size != 2048 {
		t.Errorf("specs[0] = %+v, want size 2048 without scalar", specs[0])
	}
}

func TestParseChannelSpecsErrors(t *testing.T) {
	for _, arg := range []string{"NameOnly", "Bad:depth", "Bad:16:scalar:huge"} {
		if _, err := parseChannelSpecs(arg); err == nil {
			t.Errorf("parseChannelSpecs(%q) accepted bad input", arg)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b ,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitList = %v, want %v", got, want)
		}
	}
}
