package domain

import (
	"reflect"
	"testing"
)

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty", "", []string{}, false},
		{"null", "null", []string{}, false},
		{"empty array", "[]", []string{}, false},
		{"list", `["auth","jwt"]`, []string{"auth", "jwt"}, false},
		{"trims and drops blanks", `[" auth ",""," "]`, []string{"auth"}, false},
		{"not json", "auth,jwt", []string{}, true},
		{"wrong shape", `{"a":1}`, []string{}, true},
		{"numbers", `[1,2]`, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTags(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeTags() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeTags() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEncodeTags(t *testing.T) {
	if got := EncodeTags(nil); got != "[]" {
		t.Errorf("EncodeTags(nil) = %q", got)
	}
	if got := EncodeTags([]string{"react", "ui"}); got != `["react","ui"]` {
		t.Errorf("EncodeTags() = %q", got)
	}

	back, err := DecodeTags(EncodeTags([]string{"a", "b"}))
	if err != nil || !reflect.DeepEqual(back, []string{"a", "b"}) {
		t.Errorf("round trip = %v, %v", back, err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Approved "); err != nil || s != StatusApproved {
		t.Errorf("ParseStatus() = %q, %v", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestResourceHasTag(t *testing.T) {
	r := Resource{Tags: []string{"React", "ui"}}
	if !r.HasTag("react") {
		t.Error("HasTag(react) = false")
	}
	if r.HasTag("vue") {
		t.Error("HasTag(vue) = true")
	}
}
