package security

import (
	"strings"
	"testing"
)

func TestSanitize_AllowedTags(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraph and emphasis",
			input: "<p>hello <strong>world</strong> <em>ok</em></p>",
			want:  "<p>hello <strong>world</strong> <em>ok</em></p>",
		},
		{
			name:  "list",
			input: "<ul><li>one</li><li>two</li></ul>",
			want:  "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name:  "code block",
			input: "<pre><code>x := 1</code></pre>",
			want:  "<pre><code>x := 1</code></pre>",
		},
		{
			name:  "plain text",
			input: "no markup at all",
			want:  "no markup at all",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesDangerousMarkup(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "script tag and its content",
			input: `<p>safe</p><script>alert("xss")</script>`,
			want:  "<p>safe</p>",
		},
		{
			name:  "iframe",
			input: `<iframe src="https://evil.example"></iframe>text`,
			want:  "text",
		},
		{
			name:  "event handler attribute",
			input: `<p onclick="steal()">click me</p>`,
			want:  "<p>click me</p>",
		},
		{
			name:  "style tag",
			input: `<style>body{display:none}</style><p>ok</p>`,
			want:  "<p>ok</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Links(t *testing.T) {
	s := NewContentSanitizer()

	// httpsリンクは通過し、rel属性が強制付与される
	got := s.Sanitize(`<a href="https://example.com">link</a>`)
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("https link lost href: %q", got)
	}
	if !strings.Contains(got, "nofollow") || !strings.Contains(got, "noreferrer") {
		t.Errorf("https link missing rel tokens: %q", got)
	}

	// javascriptスキームはhref自体が落ちる
	got = s.Sanitize(`<a href="javascript:alert(1)">bad</a>`)
	if got != "bad" {
		t.Errorf("javascript link = %q, want %q", got, "bad")
	}
}

// 同一入力に対して常に同一出力（冪等性）。
func TestSanitize_Idempotent(t *testing.T) {
	s := NewContentSanitizer()
	input := `<p>hello <strong>world</strong></p><script>x</script>`

	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestSanitizeStrict_StripsAllTags(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.SanitizeStrict("<b>Title</b> with <a href=\"https://x\">link</a>"); got != "Title with link" {
		t.Errorf("SanitizeStrict = %q, want %q", got, "Title with link")
	}
}
