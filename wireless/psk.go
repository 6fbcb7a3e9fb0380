package wireless

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// DerivePSK computes the WPA2 pre-shared key for a passphrase and SSID
// (PBKDF2-SHA1, 4096 iterations, 256 bits) and returns it hex encoded,
// the form wpa_supplicant accepts in an unquoted psk= field.
func DerivePSK(ssid, passphrase string) string {
	key := pbkdf2.Key([]byte(passphrase), []byte(ssid), 4096, 32, sha1.New)
	return hex.EncodeToString(key)
}
