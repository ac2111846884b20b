package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeviceHash derives a coarse device identity from the user-agent string
// and observed IP address. The same (userAgent, ipAddress) pair always maps
// to the same hash, so repeat logins from one browser refresh the existing
// device session instead of claiming a new slot.
func DeviceHash(userAgent, ipAddress string) string {
	sum := sha256.Sum256([]byte(userAgent + "-" + ipAddress))
	return hex.EncodeToString(sum[:])
}
