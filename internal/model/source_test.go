package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ok      bool
		kind    SourceKind
		videoID string
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true, KindVideoYouTube, "dQw4w9WgXcQ"},
		{"youtube short link", "https://youtu.be/dQw4w9WgXcQ", true, KindVideoYouTube, "dQw4w9WgXcQ"},
		{"youtube shorts", "https://youtube.com/shorts/abc123xyz", true, KindVideoYouTube, "abc123xyz"},
		{"youtube embed", "https://www.youtube.com/embed/abc123xyz", true, KindVideoYouTube, "abc123xyz"},
		{"youtube channel falls back to web", "https://www.youtube.com/@somechef", true, KindWeb, ""},
		{"tiktok video", "https://www.tiktok.com/@cook/video/7012345678901234567", true, KindVideoTikTok, "7012345678901234567"},
		{"instagram reel", "https://www.instagram.com/reel/Cxyz123/", true, KindVideoInstagram, "Cxyz123"},
		{"recipe site", "https://www.seriouseats.com/perfect-pan-pizza", true, KindWeb, ""},
		{"http scheme ok", "http://example.com/recipe", true, KindWeb, ""},
		{"ftp rejected", "ftp://example.com/recipe", false, "", ""},
		{"no host", "https:///nope", false, "", ""},
		{"garbage", "not a url", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok := ClassifyURL(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.kind, src.Kind)
			assert.Equal(t, tt.videoID, src.VideoID)
		})
	}
}

func TestSourceKindIsVideo(t *testing.T) {
	assert.True(t, KindVideoYouTube.IsVideo())
	assert.True(t, KindVideoTikTok.IsVideo())
	assert.False(t, KindWeb.IsVideo())
}

func TestProvenancePriorityOrdering(t *testing.T) {
	order := AllProvenances()
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i-1].Priority(), order[i].Priority())
	}
	assert.True(t, ProvenanceStructured.Valid())
	assert.False(t, Provenance("guess").Valid())
	assert.Equal(t, 0, Provenance("guess").Priority())
}
