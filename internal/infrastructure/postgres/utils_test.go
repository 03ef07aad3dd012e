package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ANO/GW", "%ANO/GW%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.in))
		})
	}
}
