package mime

import "testing"

func TestLookupKnownExtensions(t *testing.T) {
	cases := map[string]string{
		"html": "text/html",
		"css":  "text/css",
		"js":   "text/javascript",
		"png":  "image/png",
		"json": "application/json",
	}
	for ext, want := range cases {
		if got := Lookup(ext); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestLookupUnknownExtensionDefaultsToOctetStream(t *testing.T) {
	if got := Lookup("nosuchext"); got != defaultMime {
		t.Errorf("Lookup(unknown) = %q, want %q", got, defaultMime)
	}
}
