package assets

import "strings"

// The source wiki wrote some uploads to disk with these letters replaced by
// U+FFFD while recording the intact name (and hashing it). Legacy files only
// resolve when the final path segment is corrupted the same way. Delete this
// file, and the call in Path, once the upload store has been repaired.
var corruptedLetters = strings.NewReplacer(
	"ä", "\ufffd",
	"ö", "\ufffd",
	"ü", "\ufffd",
	"Ä", "\ufffd",
	"Ö", "\ufffd",
	"Ü", "\ufffd",
)

// CorruptName applies the upstream storage corruption to a file name.
func CorruptName(name string) string {
	return corruptedLetters.Replace(name)
}
