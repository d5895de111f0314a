package accesscode

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samborkent/uuidv7"
)

// NewSecret returns a fresh editor secret for a tournament desk.
func NewSecret() string {
	return uuidv7.New().String()
}

// Encode packs a tournament tag and its secret into an opaque invite code.
func Encode(tag, secret string) string {
	code := fmt.Sprintf("%s|%s", tag, secret)
	return base64.StdEncoding.EncodeToString([]byte(code))
}

// Decode unpacks an invite code into the tag and secret it was built from.
func Decode(code string) (tag, secret string, err error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", "", err
	}
	res := strings.Split(string(decodedBytes), "|")
	if len(res) != 2 {
		return "", "", fmt.Errorf("not correct format")
	}
	return res[0], res[1], nil
}
