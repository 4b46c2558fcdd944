package session

import (
	"encoding/base64"
	"net/http"
	"strings"

	sessionerrors "github.com/khatias/rdbr-project/internal/session/errors"
)

// MaxAvatarBytes bounds the decoded size of a stored avatar.
const MaxAvatarBytes = 2 << 20

// AvatarDataURI encodes raw image bytes as a data URI. The content type is
// sniffed when not given.
func AvatarDataURI(contentType string, raw []byte) (string, error) {
	if len(raw) > MaxAvatarBytes {
		return "", sessionerrors.ErrAvatarTooLarge
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", sessionerrors.ErrInvalidAvatar
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// ValidateAvatar accepts an empty value (no avatar) or a base64 image data
// URI within MaxAvatarBytes.
func ValidateAvatar(avatar string) error {
	if avatar == "" {
		return nil
	}
	if !strings.HasPrefix(avatar, "data:image/") {
		return sessionerrors.ErrInvalidAvatar
	}
	_, payload, ok := strings.Cut(avatar, ";base64,")
	if !ok {
		return sessionerrors.ErrInvalidAvatar
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxAvatarBytes+2 {
		return sessionerrors.ErrAvatarTooLarge
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return sessionerrors.ErrInvalidAvatar
	}
	return nil
}
