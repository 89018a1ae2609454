package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags", "<b>bold</b> <div class=\"x\">text</div>", "bold text"},
		{"script", "<script>alert(1)</script>ok", "ok"},
		{"comment", "<!-- hidden -->shown", "shown"},
		{"generics", "std::vector<int> v; List<String> names", "std::vector<int> v; List<String> names"},
		{"comparisons", "a < b && c > d", "a < b && c > d"},
		{"code span", "use `<b>x</b>` here", "use `<b>x</b>` here"},
		{"fenced code", "```\n<div>keep</div>\n```\n<i>drop</i>", "```\n<div>keep</div>\n```\ndrop"},
		{"plain", "Hello there", "Hello there"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}
