// Package assets locates uploaded files in the source wiki's hash-bucketed upload
// directory and returns them ready for inline embedding.
//
// The layout is <root>/<h[0]>/<h[0:2]>/<name>, where h is the hex MD5 of the
// normalized file name. Lookups that miss the bucket fall back to a
// case-insensitive walk of the whole tree.
package assets
