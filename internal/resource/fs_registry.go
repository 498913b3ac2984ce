package resource

import (
	"io/fs"
	"os"
	"sync/atomic"
)

// DefaultExtensions are tried in order when a resource name carries none.
var DefaultExtensions = []string{"", ".json", ".txt"}

// FSRegistry serves resources from an fs.FS such as an embed.FS or a
// directory opened with os.DirFS.
type FSRegistry struct {
	fsys        fs.FS
	extensions  []string
	outstanding atomic.Int64
}

// NewFSRegistry builds a registry over fsys. Without extensions the
// DefaultExtensions are used.
func NewFSRegistry(fsys fs.FS, extensions ...string) *FSRegistry {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &FSRegistry{fsys: fsys, extensions: extensions}
}

// NewDirRegistry serves resources from a directory on disk.
func NewDirRegistry(dir string) *FSRegistry {
	return NewFSRegistry(os.DirFS(dir))
}

// Lookup reads the first candidate file that exists for name.
func (r *FSRegistry) Lookup(name string) (Handle, bool) {
	key := normalizeName(name)
	if key == "" || r.fsys == nil {
		return nil, false
	}
	for _, ext := range r.extensions {
		data, err := fs.ReadFile(r.fsys, key+ext)
		if err != nil {
			// missing, directory or unreadable: try the next candidate
			continue
		}
		r.outstanding.Add(1)
		return &textHandle{path: key + ext, text: string(data)}, true
	}
	return nil, false
}

// Release returns a handle obtained from Lookup.
func (r *FSRegistry) Release(h Handle) {
	if h == nil {
		return
	}
	r.outstanding.Add(-1)
}

// Outstanding reports how many handles have not been released yet.
func (r *FSRegistry) Outstanding() int {
	return int(r.outstanding.Load())
}
