package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantWord string
		wantHit  bool
	}{
		{
			name:    "empty text",
			text:    "",
			wantHit: false,
		},
		{
			name:    "clean text",
			text:    "형님들, 지금 백화점입니다.",
			wantHit: false,
		},
		{
			name:     "direct match",
			text:     "이런 시발 상황이",
			wantWord: "시발",
			wantHit:  true,
		},
		{
			name:     "bypass with spaces",
			text:     "개 새 끼",
			wantWord: "개새끼",
			wantHit:  true,
		},
		{
			name:     "bypass with punctuation",
			text:     "시.발",
			wantWord: "시발",
			wantHit:  true,
		},
		{
			name:    "colloquial allowed",
			text:    "존나 힘드네요",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, hit := Check(tt.text)
			assert.Equal(t, tt.wantHit, hit)
			if tt.wantHit {
				assert.Equal(t, tt.wantWord, word)
			}
		})
	}
}
