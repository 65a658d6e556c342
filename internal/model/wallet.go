package model

// KeyFile represents the encrypted signer key file structure
type KeyFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeyData represents decrypted key data
type KeyData struct {
	PrivateKey []byte `json:"privateKey"` // 32-byte secp256k1 scalar (base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}
