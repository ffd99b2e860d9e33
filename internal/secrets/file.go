package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// per-user secret file (0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but avoids a plain-text token on disk.

const fileName = "secrets.json"

type secretFile struct {
	Secrets map[string]string `json:"secrets"` // service/key -> base64(ciphertext)
}

// FileStore is the fallback used when no OS keyring is reachable.
type FileStore struct {
	dir     string
	service string
	key     string
}

func NewFileStore(dir, service, key string) *FileStore {
	return &FileStore{dir: dir, service: service, key: key}
}

func (s *FileStore) entry() string {
	return norm(s.service) + "/" + norm(s.key)
}

func (s *FileStore) Set(value string) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	sf, _ := load(path)
	if sf.Secrets == nil {
		sf.Secrets = map[string]string{}
	}
	ct, err := encrypt(s.service, []byte(value))
	if err != nil {
		return err
	}
	sf.Secrets[s.entry()] = base64.StdEncoding.EncodeToString(ct)
	return save(path, sf)
}

func (s *FileStore) Get() (string, error) {
	path, err := s.filePath()
	if err != nil {
		return "", err
	}
	sf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := sf.Secrets[s.entry()]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode: %w", err)
	}
	pt, err := decrypt(s.service, raw)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt: %w", err)
	}
	return string(pt), nil
}

func (s *FileStore) Delete() error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	sf, err := load(path)
	if err != nil {
		return err
	}
	if _, ok := sf.Secrets[s.entry()]; !ok {
		return nil
	}
	delete(sf.Secrets, s.entry())
	return save(path, sf)
}

func (s *FileStore) filePath() (string, error) {
	dir := s.dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "expensetracker")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey(service string) []byte {
	base := fmt.Sprintf("%s-%s-%s", norm(service), runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(service string, plain []byte) ([]byte, error) {
	gcm, err := newGCM(service)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(service string, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(service)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(service string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey(service))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
