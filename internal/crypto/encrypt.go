package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlexZinkM/disperse/internal/model"

	"golang.org/x/crypto/scrypt"
)

// KeyFileExt is the extension of encrypted signer key files
const KeyFileExt = ".key"

const (
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// scryptN is the scrypt cost. N=2^18 takes ~256MB RAM and 0.5-2s per derivation.
var scryptN = 1 << 18

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncryptKey encrypts key data and writes it to a new key file.
// password must be []byte for security (caller should zero it after use)
func EncryptKey(filePath string, network, address, qrCode string, keyData *model.KeyData, password []byte) error {
	if !strings.HasSuffix(filePath, KeyFileExt) {
		return fmt.Errorf("file must have %s extension", KeyFileExt)
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	fileData, err := sealKey(network, address, qrCode, keyData, password)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Reencrypt decrypts a key file with oldPassword and replaces it with a copy
// sealed under newPassword. Salt and nonce are regenerated.
func Reencrypt(filePath string, oldPassword, newPassword []byte) (string, error) {
	if len(newPassword) == 0 {
		return "", errors.New("password cannot be empty")
	}

	keyFile, keyData, err := DecryptKey(filePath, oldPassword)
	if err != nil {
		return "", err
	}
	defer clear(keyData.PrivateKey)

	fileData, err := sealKey(keyFile.Network, keyFile.Address, keyFile.QR, keyData, newPassword)
	if err != nil {
		return "", err
	}

	// written next to the key file, then renamed over it
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".rekey-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(fileData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", fmt.Errorf("failed to replace key file: %w", err)
	}

	return keyFile.Address, nil
}

// sealKey derives a fresh key from password and returns the serialized key file
func sealKey(network, address, qrCode string, keyData *model.KeyData, password []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key data: %w", err)
	}
	defer clear(plaintext)

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	keyFile := model.KeyFile{
		Network:    network,
		Address:    address,
		QR:         qrCode,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(keyFile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key file: %w", err)
	}

	// BOM for proper display in Windows editors
	return append(append([]byte(nil), utf8BOM...), fileData...), nil
}

func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
