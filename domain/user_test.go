package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeUserProfileFieldsTakePrecedence(t *testing.T) {
	principal := Principal{
		SubjectID:   "uid-1",
		Email:       "provider@example.com",
		DisplayName: "Provider Name",
		PhotoURL:    "provider.png",
	}
	profile := &Profile{
		Username: "janed",
		FullName: "Jane Doe",
		Email:    "profile@example.com",
		Photo:    "profile.png",
		Wishlist: []string{"prod-1"},
	}

	user := MergeUser(principal, profile)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "profile@example.com", user.Email)
	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.Equal(t, "profile.png", user.PhotoURL)
	assert.Equal(t, "janed", user.Username)
	assert.Equal(t, []string{"prod-1"}, user.Wishlist)
}

func TestMergeUserEmptyProfileFieldsFallBackToPrincipal(t *testing.T) {
	principal := Principal{
		SubjectID:   "uid-1",
		Email:       "provider@example.com",
		DisplayName: "Provider Name",
		PhotoURL:    "provider.png",
	}

	user := MergeUser(principal, &Profile{Username: "janed"})
	assert.Equal(t, "provider@example.com", user.Email)
	assert.Equal(t, "Provider Name", user.DisplayName)
	assert.Equal(t, "provider.png", user.PhotoURL)
	assert.Equal(t, "janed", user.Username)
}

func TestMergeUserNilProfileDegradesToProviderFields(t *testing.T) {
	principal := Principal{SubjectID: "uid-1", Email: "provider@example.com"}

	user := MergeUser(principal, nil)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "provider@example.com", user.Email)
	assert.Empty(t, user.Username)
	assert.Nil(t, user.Wishlist)
}
