package cms

import "strings"

// MediaRef identifies one remote upload embedded in a CMS item.
// hash+ext is the CMS-assigned local filename; uniqueness is whatever the
// CMS guarantees, not a true content hash.
type MediaRef struct {
	Name            string `json:"name"`
	AlternativeText string `json:"alternativeText"`
	Hash            string `json:"hash"`
	Ext             string `json:"ext"`
	Mime            string `json:"mime"`
	URL             string `json:"url"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Size            float64 `json:"size"`
}

var videoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

// Filename returns the local filename for the reference (hash + ext).
func (m MediaRef) Filename() string {
	return m.Hash + m.Ext
}

// IsVector reports whether the reference is an SVG.
func (m MediaRef) IsVector() bool {
	return m.Mime == "image/svg+xml" || strings.EqualFold(m.Ext, ".svg")
}

// IsVideo reports whether the reference is a video container we process.
func (m MediaRef) IsVideo() bool {
	return videoExts[strings.ToLower(m.Ext)]
}

// Valid reports whether the reference carries enough fields to fetch.
func (m MediaRef) Valid() bool {
	return m.URL != "" && m.Hash != "" && m.Ext != ""
}

// Alt returns the alternative text, falling back to the upload name.
func (m MediaRef) Alt() string {
	if m.AlternativeText != "" {
		return m.AlternativeText
	}
	return m.Name
}
