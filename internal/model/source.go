package model

import (
	"net/url"
	"strings"
)

// SourceKind classifies what an input URL points at.
type SourceKind string

const (
	// KindWeb is any generic web page.
	KindWeb SourceKind = "web"
	// KindVideoYouTube covers youtube.com watch/shorts URLs and youtu.be.
	KindVideoYouTube SourceKind = "video:youtube"
	// KindVideoTikTok covers tiktok.com video URLs.
	KindVideoTikTok SourceKind = "video:tiktok"
	// KindVideoInstagram covers instagram.com reel URLs.
	KindVideoInstagram SourceKind = "video:instagram"
)

// IsVideo reports whether the kind routes to the video extraction path.
func (k SourceKind) IsVideo() bool {
	return strings.HasPrefix(string(k), "video:")
}

// SourceURL is a validated input URL with its derived kind. Immutable once
// classified.
type SourceURL struct {
	Raw     string     `json:"raw"`
	Kind    SourceKind `json:"kind"`
	VideoID string     `json:"video_id,omitempty"`
}

// ClassifyURL validates raw and derives its SourceKind. It returns ok=false
// for unparseable URLs or non-http(s) schemes.
func ClassifyURL(raw string) (SourceURL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return SourceURL{}, false
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	src := SourceURL{Raw: u.String(), Kind: KindWeb}

	switch {
	case host == "youtu.be":
		src.Kind = KindVideoYouTube
		src.VideoID = strings.Trim(u.Path, "/")
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		src.Kind = KindVideoYouTube
		src.VideoID = youtubeVideoID(u)
	case host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com"):
		if id := pathSegmentAfter(u.Path, "video"); id != "" {
			src.Kind = KindVideoTikTok
			src.VideoID = id
		}
	case host == "instagram.com":
		if id := pathSegmentAfter(u.Path, "reel"); id != "" {
			src.Kind = KindVideoInstagram
			src.VideoID = id
		}
	}

	// Video platform URL without an identifiable video (channel pages,
	// playlists) still routes as a generic web page.
	if src.Kind.IsVideo() && src.VideoID == "" {
		src.Kind = KindWeb
	}

	return src, true
}

func youtubeVideoID(u *url.URL) string {
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if id := pathSegmentAfter(u.Path, "shorts"); id != "" {
		return id
	}
	if id := pathSegmentAfter(u.Path, "embed"); id != "" {
		return id
	}
	return ""
}

// pathSegmentAfter returns the path segment immediately following marker,
// or "" if marker is absent or last.
func pathSegmentAfter(path, marker string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s == marker && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}
