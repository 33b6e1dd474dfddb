// Package profile persists the reader's display name, credential and
// optional avatar.
package profile

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrIncomplete = errors.New("profile needs a name and an API key")
)

type Profile struct {
	Name   string `yaml:"user_name"`
	APIKey string `yaml:"groq_api_key"`
	// Avatar is an image data URL; empty when none was chosen.
	Avatar string `yaml:"user_avatar,omitempty"`
}

// Complete reports whether onboarding has been done.
func (p Profile) Complete() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.APIKey) != ""
}

func (p Profile) Validate() error {
	if !p.Complete() {
		return ErrIncomplete
	}
	return nil
}

// Initial is the upper-cased first letter of the name, used when there is no
// avatar.
func (p Profile) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(p.Name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// MaskedKey shows only the last four characters of the credential.
func (p Profile) MaskedKey() string {
	k := []rune(p.APIKey)
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 8) + string(k[len(k)-4:])
}

// AvatarFromFile reads an image and encodes it as a data URL.
func AvatarFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mt, "image/") {
		return "", fmt.Errorf("avatar %s is not an image (%s)", filepath.Base(path), mt)
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Store persists a single profile.
type Store interface {
	// Load returns ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (Profile, error)
	Save(ctx context.Context, p Profile) error
	Close() error
}
