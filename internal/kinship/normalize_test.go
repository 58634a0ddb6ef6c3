package kinship

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []RelationType
		want []RelationType
	}{
		{"empty", []RelationType{}, []RelationType{}},
		{"single", []RelationType{Buwa}, []RelationType{Buwa}},
		{"wife's son", []RelationType{Shreemati, Chhora}, []RelationType{Chhora}},
		{"husband's daughter", []RelationType{Shreeman, Chhori}, []RelationType{Chhori}},
		{"father's wife's son", []RelationType{Buwa, Shreemati, Chhora}, []RelationType{Buwa, Chhora}},
		{"son's wife", []RelationType{Chhora, Shreemati}, []RelationType{Chhora, Shreemati}},
		{"in-law is not spousal", []RelationType{Sasura, Chhora}, []RelationType{Sasura, Chhora}},
		{"spouse run", []RelationType{Shreeman, Shreemati, Chhora}, []RelationType{Chhora}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Normalize(%v)=%v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	in := []RelationType{Shreemati, Chhora}
	_ = Normalize(in)
	if !reflect.DeepEqual(in, []RelationType{Shreemati, Chhora}) {
		t.Fatalf("input modified: %v", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	alphabet := []RelationType{Shreeman, Shreemati, Chhora, Chhori, Buwa, Daju}
	var walk func(prefix []RelationType, depth int)
	walk = func(prefix []RelationType, depth int) {
		once := Normalize(prefix)
		twice := Normalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("not idempotent: %v -> %v -> %v", prefix, once, twice)
		}
		if depth == 0 {
			return
		}
		for _, step := range alphabet {
			next := append(append([]RelationType{}, prefix...), step)
			walk(next, depth-1)
		}
	}
	walk([]RelationType{}, 4)
}
