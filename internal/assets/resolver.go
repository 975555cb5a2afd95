package assets

import (
	"encoding/base64"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
)

var (
	// ErrAssetNotFound is returned when neither the bucket path nor the fallback
	// walk finds the file.
	ErrAssetNotFound = ferrors.AssetError("asset not found").Build()
	// ErrUnsupportedAssetType is returned for extensions that cannot be embedded.
	ErrUnsupportedAssetType = ferrors.AssetError("unsupported asset type").Build()
)

// Asset is a resolved upload.
type Asset struct {
	Name     string // normalized name
	Path     string // location inside the asset root
	MIMEType string
	Data     []byte
}

// DataURI returns the asset as a base64 data URI.
func (a *Asset) DataURI() string {
	return "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Resolver looks up assets in a read-only file tree. It is safe for concurrent use.
type Resolver struct {
	fsys   fs.FS
	logger *slog.Logger

	// cache maps normalized names to their location; "" records a miss.
	cacheEnabled bool
	mu           sync.RWMutex
	cache        map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache remembers lookups (hits and misses) for the lifetime of the Resolver.
func WithCache() Option {
	return func(r *Resolver) {
		r.cacheEnabled = true
		r.cache = make(map[string]string)
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver returns a Resolver over fsys, typically os.DirFS(assetRoot).
func NewResolver(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{fsys: fsys, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the upload referenced by rawName and reads it.
func (r *Resolver) Resolve(rawName string) (*Asset, error) {
	name := Normalize(rawName)
	if name == "" {
		return nil, ErrAssetNotFound.WithContext("filename", rawName)
	}

	p, ok := r.locate(name)
	if !ok {
		return nil, ErrAssetNotFound.
			WithContext("filename", name).
			WithContext("path", Path(name))
	}

	// Classified by the requested name, not the matched file's.
	mimeType, err := MIMETypeFor(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read asset").
			WithContext("filename", name).
			WithContext("path", p).
			Build()
	}

	return &Asset{Name: name, Path: p, MIMEType: mimeType, Data: data}, nil
}

func (r *Resolver) locate(name string) (string, bool) {
	if r.cacheEnabled {
		r.mu.RLock()
		p, hit := r.cache[name]
		r.mu.RUnlock()
		if hit {
			return p, p != ""
		}
	}

	p := r.lookup(name)

	if r.cacheEnabled {
		r.mu.Lock()
		r.cache[name] = p
		r.mu.Unlock()
	}
	return p, p != ""
}

func (r *Resolver) lookup(name string) string {
	bucket := Path(name)
	if isFile(r.fsys, bucket) {
		return bucket
	}

	r.logger.Debug("Asset missing from hash bucket, scanning asset root",
		logfields.Filename(name), logfields.Path(bucket))

	found := r.scan(name)
	if found != "" {
		r.logger.Debug("Asset found by fallback scan",
			logfields.Filename(name), logfields.Path(found))
	}
	return found
}

// scan walks the tree in lexical order and returns the first file whose name
// matches name or its corrupted form, ignoring case. With several matches the
// winner is the first in walk order.
func (r *Resolver) scan(name string) string {
	corrupted := CorruptName(name)
	var found string
	_ = fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		if strings.EqualFold(base, name) || strings.EqualFold(base, corrupted) {
			found = p
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func isFile(fsys fs.FS, p string) bool {
	if !fs.ValidPath(p) {
		return false
	}
	info, err := fs.Stat(fsys, p)
	return err == nil && !info.IsDir()
}
