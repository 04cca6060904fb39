package media

import _ "embed"

// playIcon is returned as the thumbnail of every video.
//
//go:embed play.png
var playIcon []byte

// PlaceholderMimeType is the content type of the video placeholder.
const PlaceholderMimeType = "image/png"

// PlaceholderIcon returns a copy of the embedded video placeholder.
func PlaceholderIcon() []byte {
	return append([]byte(nil), playIcon...)
}
