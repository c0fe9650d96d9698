package keystore

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32
)

// File is a Store persisted as a single encrypted file. Values are kept as a
// JSON map sealed with nacl/secretbox; the key is derived from a secret via
// scrypt with a per-file random salt. It stands in for the device secure
// storage the mobile platforms provide.
type File struct {
	mu     sync.Mutex
	path   string
	secret []byte
}

var _ Store = (*File)(nil)

// NewFile creates a file-backed store at path, encrypted with secret. The
// parent directory is created if needed. The file itself is created lazily on
// the first Set.
func NewFile(path, secret string) (*File, error) {
	if path == "" {
		return nil, errors.New("[NewFile] path is required")
	}
	if secret == "" {
		return nil, errors.New("[NewFile] secret is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFile] create store directory")
	}
	return &File{path: path, secret: []byte(secret)}, nil
}

func (f *File) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[File.Clear] remove store file")
	}
	return nil
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, errors.Wrap(err, "[File.load] read store file")
	}
	if len(raw) < saltLength+nonceLength {
		return nil, errors.New("[File.load] store file is corrupt")
	}

	var salt [saltLength]byte
	copy(salt[:], raw[:saltLength])
	var nonce [nonceLength]byte
	copy(nonce[:], raw[saltLength:saltLength+nonceLength])

	key, err := f.deriveKey(salt[:])
	if err != nil {
		return nil, err
	}

	plaintext, ok := secretbox.Open(nil, raw[saltLength+nonceLength:], &nonce, key)
	if !ok {
		return nil, errors.New("[File.load] decrypt store: wrong secret or corrupt file")
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, errors.Wrap(err, "[File.load] decode store")
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "[File.save] encode store")
	}

	var salt [saltLength]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return errors.Wrap(err, "[File.save] generate salt")
	}
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrap(err, "[File.save] generate nonce")
	}

	key, err := f.deriveKey(salt[:])
	if err != nil {
		return err
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, key)
	out := make([]byte, 0, saltLength+nonceLength+len(sealed))
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)

	// Write-then-rename so a crash mid-write never loses the previous state.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return errors.Wrap(err, "[File.save] write store file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "[File.save] replace store file")
	}
	return nil
}

func (f *File) deriveKey(salt []byte) (*[keyLength]byte, error) {
	derived, err := scrypt.Key(f.secret, salt, 1<<15, 8, 1, keyLength)
	if err != nil {
		return nil, errors.Wrap(err, "[File.deriveKey] scrypt")
	}
	var key [keyLength]byte
	copy(key[:], derived)
	return &key, nil
}
