package storage

import "testing"

func TestValidateResourceType(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"APPLICATION/PDF", true},
		{"image/png", true},
		{"application/x-msdownload", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateResourceType(tc.contentType); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.contentType, got, tc.want)
		}
	}
}

func TestResourceKey(t *testing.T) {
	got := ResourceKey("lesson-1", "res-9", "Notes.PDF")
	want := "resources/lesson-1/res-9.pdf"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// No extension on the original filename.
	if got := ResourceKey("l", "r", "README"); got != "resources/l/r" {
		t.Fatalf("got %q", got)
	}
}
