package errorpage

import (
	"strings"
	"testing"
)

func TestGetKnownStatus(t *testing.T) {
	body := Get(404)
	if body == "" {
		t.Fatal("expected a body for 404")
	}
	if want := "404 Not Found"; !strings.Contains(body, want) {
		t.Errorf("body %q does not contain %q", body, want)
	}
}

func TestGetUnknownStatusIsEmpty(t *testing.T) {
	if got := Get(299); got != "" {
		t.Errorf("Get(299) = %q, want empty", got)
	}
}

func TestWithExtraMessageAppendsParagraph(t *testing.T) {
	body := WithExtraMessage(403, "document root escape")
	if !strings.Contains(body, "<p>document root escape</p>") {
		t.Errorf("body %q missing extra message paragraph", body)
	}
}

func TestWithExtraMessageEmptyMessageOmitsParagraph(t *testing.T) {
	body := WithExtraMessage(500, "")
	if strings.Contains(body, "<p>") {
		t.Errorf("body %q should not contain a paragraph for an empty message", body)
	}
}
