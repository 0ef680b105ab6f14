// Package profile manages per-user shipping profiles and display
// preferences. Both persist independently of the auth session lifetime.
package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pikacards/storefront/storage"
)

const imageSizePrefID = "history_image_size"

// ImageSize pixel values for the history view, keyed by preference name.
var imageSizes = map[string]int{
	"small":  96,
	"medium": 140,
	"large":  180,
}

// DefaultImageSize is used when no preference has been saved.
const DefaultImageSize = "medium"

// ShippingProfile is the delivery information required at checkout.
// Avatar is an optional data URI shown next to the username.
type ShippingProfile struct {
	Province string `json:"province"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar,omitempty"`
}

// Complete reports whether the profile satisfies the checkout precondition:
// both province and address must be non-blank.
func (p ShippingProfile) Complete() bool {
	return strings.TrimSpace(p.Province) != "" && strings.TrimSpace(p.Address) != ""
}

// Store persists shipping profiles and preferences.
type Store struct {
	repo storage.Repository
}

// NewStore creates a profile store backed by the given repository.
func NewStore(repo storage.Repository) *Store {
	return &Store{repo: repo}
}

// Load returns the stored profile for the username. Absent or corrupt
// records yield the zero profile.
func (s *Store) Load(username string) ShippingProfile {
	data, err := s.repo.Get(storage.RecordProfile, username)
	if err != nil {
		return ShippingProfile{}
	}
	var p ShippingProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return ShippingProfile{}
	}
	return p
}

// Save stores the profile for the username.
func (s *Store) Save(username string, p ShippingProfile) error {
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.repo.Put(storage.RecordProfile, username, data)
}

// SeedAvatar sets the profile avatar only when none is stored yet. Used to
// adopt the Google account picture on first Google sign-in without
// overwriting a user-chosen one.
func (s *Store) SeedAvatar(username, avatar string) error {
	if username == "" || avatar == "" {
		return nil
	}
	p := s.Load(username)
	if p.Avatar != "" {
		return nil
	}
	p.Avatar = avatar
	return s.Save(username, p)
}

// ImageSizePref returns the saved history image-size preference, or the
// default when none (or an unknown value) is stored.
func (s *Store) ImageSizePref() string {
	data, err := s.repo.Get(storage.RecordPrefs, imageSizePrefID)
	if err != nil {
		return DefaultImageSize
	}
	var pref string
	if err := json.Unmarshal(data, &pref); err != nil {
		return DefaultImageSize
	}
	if _, ok := imageSizes[pref]; !ok {
		return DefaultImageSize
	}
	return pref
}

// SetImageSizePref saves the history image-size preference.
func (s *Store) SetImageSizePref(pref string) error {
	if _, ok := imageSizes[pref]; !ok {
		return fmt.Errorf("unknown image size %q (want small, medium, or large)", pref)
	}
	data, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return s.repo.Put(storage.RecordPrefs, imageSizePrefID, data)
}

// ImageSizePixels maps a preference name to its pixel size.
func ImageSizePixels(pref string) int {
	if px, ok := imageSizes[pref]; ok {
		return px
	}
	return imageSizes[DefaultImageSize]
}
