package assets

import (
	"crypto/md5"
	"encoding/hex"
	"path"
	"strings"
)

// invisibleMarker (U+200E LEFT-TO-RIGHT MARK) is tolerated by the source wiki inside file names but is not
// part of the stored name.
const invisibleMarker = "\u200e"

// Normalize turns a file reference as written in markup into the lookup key.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, invisibleMarker, "")
}

// Path returns the bucketed location of a normalized name, relative to the asset
// root and slash separated. The hash is taken over the name itself; only the final
// segment goes through CorruptName.
func Path(name string) string {
	sum := md5.Sum([]byte(name))
	h := hex.EncodeToString(sum[:])
	return path.Join(h[:1], h[:2], CorruptName(name))
}
