// Package media implements the gallery core: validating requested
// directories against the gallery root, discovering media in a directory,
// and producing thumbnails on demand.
//
// Thumbnails are written beside their originals as "<stem>_thumb<ext>" and
// trusted from then on. JPEG, PNG and GIF originals are resampled to fill a
// box derived from one nominal size and center-cropped; other formats are
// served unchanged. Videos get a fixed placeholder icon. Every image
// processing failure degrades to serving the original bytes, so the only
// errors that reach the HTTP boundary are the ErrNotFound family.
package media
