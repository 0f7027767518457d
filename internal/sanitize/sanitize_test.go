package sanitize_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/justinong00/mern-dormguru-sub000/internal/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Great dorm!", want: "Great dorm!"},
		{name: "ampersand kept", in: "Rooms & kitchen", want: "Rooms & kitchen"},
		{name: "tags stripped", in: "<b>Loud</b> neighbours", want: "Loud neighbours"},
		{name: "script removed", in: "ok<script>alert(1)</script>", want: "ok"},
		{name: "trimmed", in: "  spaced  ", want: "spaced"},
		{name: "quotes kept", in: `It's "quiet"`, want: `It's "quiet"`},
		{name: "escaped script stays text", in: "&lt;script&gt;alert(1)&lt;/script&gt;", want: "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{name: "escaped img stays text", in: "&lt;img src=x onerror=alert(1)&gt;", want: "&lt;img src=x onerror=alert(1)&gt;"},
		{name: "double escaped", in: "&amp;lt;b&amp;gt;", want: "&lt;b&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize.Text(tt.in)
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsAny(got, "<>") {
				t.Errorf("Text(%q) = %q still contains markup", tt.in, got)
			}
		})
	}
}

func TestRich_KeepsFormatting(t *testing.T) {
	in := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := sanitize.Rich(in); got != in {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestRich_RemovesScript(t *testing.T) {
	got := sanitize.Rich("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestRich_RemovesJavascriptHref(t *testing.T) {
	got := sanitize.Rich(`<a href="javascript:alert('xss')">Click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestTexts_DropsEmpty(t *testing.T) {
	got := sanitize.Texts([]string{"Single", " ", "<i></i>", "Double "})
	want := []string{"Single", "Double"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Texts = %v, want %v", got, want)
	}
}
