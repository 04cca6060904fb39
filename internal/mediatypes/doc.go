// Package mediatypes classifies gallery files by their content.
//
// Classification never trusts file extensions. A Detector sniffs the leading
// bytes of a file and returns a MIME type; the helpers in this package decide
// what that MIME type means for the gallery:
//
//	mime, err := mediatypes.DefaultDetector().DetectFile(path)
//	if err == nil && mediatypes.IsGalleryMedia(mime) {
//	    // listed in the gallery
//	}
//
// Images and videos are gallery media, except camera raw subtypes that no
// downstream decoder can render (see ExcludedSubtypes).
package mediatypes
