package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/backend/cgen"
	"quill/internal/ir"
)

// Current schema version - increment when Payload format changes.
const cacheSchemaVersion uint16 = 1

// Digest identifies a fully constructed module by content.
type Digest [sha256.Size]byte

// DiskCache stores emitted artifacts keyed by module digest, so a
// front-end re-running an unchanged module can skip emission entirely.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached emission result.
type Payload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Name    string
	Source  string
	Imports []string
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location (XDG cache dir, falling back to ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt returns a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "emits", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache. The schema
// version is stamped here; callers need not set it.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads a payload from the disk cache. A missing entry or a stale
// schema version reports ok=false without an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// fpVar is a name/type pair in deterministic order, standing in for the
// name-keyed maps of the live containers.
type fpVar struct {
	Name string
	Type ir.AbiType
}

type fpFunc struct {
	Name      string
	Signature ir.Signature
	Vars      []fpVar
	Blocks    []*ir.Block
}

type fpModule struct {
	Policy uint8
	Funcs  []fpFunc
	Data   []fpVar
}

// Fingerprint hashes a canonical encoding of the module plus the
// emission policy. Map-backed state is flattened into declaration order
// first, so the digest is stable across runs.
func Fingerprint(mod *ir.Module, policy cgen.ExprPolicy) (Digest, error) {
	snap := fpModule{Policy: uint8(policy), Funcs: make([]fpFunc, 0, len(mod.Funcs))}
	for _, f := range mod.Funcs {
		ff := fpFunc{
			Name:      f.Name,
			Signature: f.Signature,
			Vars:      make([]fpVar, 0, len(f.VarOrder)),
			Blocks:    f.Blocks,
		}
		for _, name := range f.VarOrder {
			ff.Vars = append(ff.Vars, fpVar{Name: name, Type: f.VarTypes[name]})
		}
		snap.Funcs = append(snap.Funcs, ff)
	}
	for _, name := range mod.DataOrder {
		snap.Data = append(snap.Data, fpVar{Name: name, Type: mod.Data[name]})
	}

	raw, err := msgpack.Marshal(&snap)
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(raw), nil
}
