package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundvest/soundvest-api/internal/sanitize"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script opener escaped", "<script>x</script>", "&lt;script>x</script>"},
		{"case insensitive", "<SCRIPT>alert(1)</SCRIPT>", "&lt;script>alert(1)</SCRIPT>"},
		{"mixed case", "a<ScRiPt>b", "a&lt;script>b"},
		{"multiple occurrences", "<script><script>", "&lt;script>&lt;script>"},
		{"trims whitespace", "  hello  ", "hello"},
		{"plain text untouched", "Invest in the artists you love", "Invest in the artists you love"},
		// The neutralization is deliberately narrow: only the literal
		// "<script" opener is escaped. Other vectors pass through.
		{"img onerror untouched", `<img src=x onerror=alert(1)>`, `<img src=x onerror=alert(1)>`},
		{"javascript text untouched", "javascript:alert(1)", "javascript:alert(1)"},
		{"closing tag untouched", "</script>", "</script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize.String(tt.in)
			require.Equal(t, tt.want, got)
			require.NotContains(t, strings.ToLower(got), "<script")
		})
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https kept", "https://a.com/b", "https://a.com/b"},
		{"http kept", "http://a.com", "http://a.com"},
		{"scheme case insensitive", "HTTPS://A.COM", "HTTPS://A.COM"},
		{"uploads path kept", "/uploads/x.png", "/uploads/x.png"},
		{"trimmed before check", "  https://a.com  ", "https://a.com"},
		{"javascript dropped", "javascript:alert(1)", ""},
		{"ftp dropped", "ftp://x", ""},
		{"data uri dropped", "data:text/html,<h1>", ""},
		{"relative path dropped", "images/x.png", ""},
		{"other absolute path dropped", "/etc/passwd", ""},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitize.URL(tt.in))
		})
	}
}

func TestSectionKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain key", "hero", "hero"},
		{"allowed punctuation", "faq.items_v2-draft", "faq.items_v2-draft"},
		{"path traversal stripped", "../../etc/passwd", "....etcpasswd"},
		{"spaces and symbols stripped", "hero section!", "herosection"},
		{"trimmed", "  hero  ", "hero"},
		{"truncated to 100", strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize.SectionKey(tt.in)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, len(got), 100)
			require.NotContains(t, got, "/")
		})
	}
}

func TestValueURLFields(t *testing.T) {
	in := map[string]any{
		"url":             "javascript:alert(1)",
		"imageUrl":        "/uploads/a.png",
		"backgroundImage": "ftp://host/bg.jpg",
		"photo":           "https://cdn.example.com/p.jpg",
	}
	got := sanitize.Value(in).(map[string]any)
	require.Equal(t, "", got["url"])
	require.Equal(t, "/uploads/a.png", got["imageUrl"])
	require.Equal(t, "", got["backgroundImage"])
	require.Equal(t, "https://cdn.example.com/p.jpg", got["photo"])
}

func TestValueURLFieldNonString(t *testing.T) {
	// The URL special case fires only for string values; other types take
	// the generic path unchanged.
	in := map[string]any{
		"url":   float64(42),
		"photo": map[string]any{"nested": "javascript:x"},
	}
	got := sanitize.Value(in).(map[string]any)
	require.Equal(t, float64(42), got["url"])
	// nested object under a URL key recurses generically: the string is
	// string-sanitized (not URL-sanitized), so it survives as text
	require.Equal(t, map[string]any{"nested": "javascript:x"}, got["photo"])
}

func TestValueImages(t *testing.T) {
	in := map[string]any{
		"images": []any{
			"https://a.com/1.jpg",
			"javascript:alert(1)",
			"/uploads/2.png",
			float64(7),
			"ftp://x/3.gif",
		},
	}
	got := sanitize.Value(in).(map[string]any)
	require.Equal(t, []any{"https://a.com/1.jpg", "/uploads/2.png"}, got["images"])
}

func TestValueLinks(t *testing.T) {
	in := map[string]any{
		"links": []any{
			map[string]any{"label": "A", "url": "https://a.com"},
			map[string]any{"label": "", "url": "https://b.com"},
			map[string]any{"label": "C", "url": "javascript:x"},
			"not an object",
			nil,
			map[string]any{"label": "D", "url": "https://d.com", "extra": "dropped"},
		},
	}
	got := sanitize.Value(in).(map[string]any)
	require.Equal(t, []any{
		map[string]any{"label": "A", "url": "https://a.com"},
		map[string]any{"label": "D", "url": "https://d.com"},
	}, got["links"])
}

func TestValueGenericRecursion(t *testing.T) {
	in := map[string]any{
		"title":   "  Our story <script>alert(1)</script>  ",
		"count":   float64(3),
		"active":  true,
		"nothing": nil,
		"nested": map[string]any{
			"bios": []any{
				map[string]any{"name": "Ada", "photo": "not-a-url"},
			},
		},
	}
	got := sanitize.Value(in).(map[string]any)
	require.Equal(t, "Our story &lt;script>alert(1)</script>", got["title"])
	require.Equal(t, float64(3), got["count"])
	require.Equal(t, true, got["active"])
	require.Nil(t, got["nothing"])
	nested := got["nested"].(map[string]any)
	bios := nested["bios"].([]any)
	require.Equal(t, map[string]any{"name": "Ada", "photo": ""}, bios[0])
}

func TestValueIdempotent(t *testing.T) {
	in := map[string]any{
		"title": "  <SCRIPT>x ",
		"url":   " javascript:y ",
		"images": []any{
			"/uploads/a.png", "bad", "HTTP://b.com",
		},
		"links": []any{
			map[string]any{"label": " L <script> ", "url": "https://l.com"},
			map[string]any{"label": "", "url": ""},
		},
		"deep": []any{
			map[string]any{"photo": "x", "text": "<script>"},
			nil,
			float64(1.5),
		},
	}
	once := sanitize.Value(in)
	twice := sanitize.Value(once)
	require.Equal(t, once, twice)
}

func TestValueScalars(t *testing.T) {
	require.Nil(t, sanitize.Value(nil))
	require.Equal(t, true, sanitize.Value(true))
	require.Equal(t, float64(2.5), sanitize.Value(float64(2.5)))
	require.Equal(t, "trimmed", sanitize.Value(" trimmed "))
}
