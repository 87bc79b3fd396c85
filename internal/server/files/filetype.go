package files

import "strings"

// categoryByExtension maps every recognized extension to its category.
var categoryByExtension = map[Extension]TypeCategory{
	ExtJPG:  TypeImage,
	ExtJPEG: TypeImage,
	ExtMKV:  TypeVideo,
	ExtMP4:  TypeVideo,
	ExtMP3:  TypeAudio,
	ExtPDF:  TypeDocument,
	ExtDOC:  TypeDocument,
	ExtPPT:  TypeDocument,
}

// Classify determines a file's type category and extension from its name.
//
// The extension is taken after the LAST dot, lower-cased. Note the contrast
// with storage.AllocateName, which splits on the first dot; the two policies
// are specified independently. An unknown or missing extension is not an
// error: the file is simply (TypeOthers, nil).
func Classify(filename string) (TypeCategory, *Extension) {
	ext := parseExtension(filename)
	if ext == nil {
		return TypeOthers, nil
	}

	if category, ok := categoryByExtension[*ext]; ok {
		return category, ext
	}

	return TypeOthers, ext
}

// parseExtension extracts the recognized extension from filename, or nil if
// there is no dot or the extension is not in the known set.
func parseExtension(filename string) *Extension {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return nil
	}

	ext := Extension(strings.ToLower(filename[idx+1:]))
	if _, ok := categoryByExtension[ext]; !ok {
		return nil
	}

	return &ext
}
