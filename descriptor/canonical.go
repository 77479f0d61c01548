package descriptor

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// CanonicalJSON returns the JSON form of c. For a normalized class equal
// descriptors give equal bytes.
func (c Class) CanonicalJSON() ([]byte, error) {
	return json.Marshal(c)
}

// Key returns the structural hash of c's canonical JSON.
func (c Class) Key() (string, error) {
	data, err := c.CanonicalJSON()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}
