package appstore

import (
	"context"
	"fmt"
	"net/http"
)

// ProfileType names a provisioning profile type on the REST API.
type ProfileType string

const (
	ProfileTypeIOSAppDevelopment ProfileType = "IOS_APP_DEVELOPMENT"
	ProfileTypeMacAppDevelopment ProfileType = "MAC_APP_DEVELOPMENT"
	ProfileTypeIOSAppStore       ProfileType = "IOS_APP_STORE"
	ProfileTypeMacAppStore       ProfileType = "MAC_APP_STORE"
	ProfileTypeMacAppDirect      ProfileType = "MAC_APP_DIRECT"
)

// ParseProfileType maps the CLI spelling to the API value.
func ParseProfileType(s string) (ProfileType, error) {
	switch s {
	case "ios-dev":
		return ProfileTypeIOSAppDevelopment, nil
	case "macos-dev":
		return ProfileTypeMacAppDevelopment, nil
	case "ios-appstore":
		return ProfileTypeIOSAppStore, nil
	case "macos-appstore":
		return ProfileTypeMacAppStore, nil
	case "notarization":
		return ProfileTypeMacAppDirect, nil
	default:
		return "", fmt.Errorf("unsupported profile type %q", s)
	}
}

// Profile is a provisioning profile.
type Profile struct {
	ID         string            `json:"id"`
	Attributes ProfileAttributes `json:"attributes"`
}

type ProfileAttributes struct {
	Name           string `json:"name"`
	Platform       string `json:"platform"`
	ProfileContent string `json:"profileContent"`
	UUID           string `json:"uuid"`
	CreatedDate    string `json:"createdDate"`
	ProfileState   string `json:"profileState"`
	ProfileType    string `json:"profileType"`
	ExpirationDate string `json:"expirationDate"`
}

type profileCreateRequest struct {
	Data profileCreateData `json:"data"`
}

type profileCreateData struct {
	Attributes    profileCreateAttributes    `json:"attributes"`
	Relationships profileCreateRelationships `json:"relationships"`
	Type          string                     `json:"type"`
}

type profileCreateAttributes struct {
	Name        string `json:"name"`
	ProfileType string `json:"profileType"`
}

type profileCreateRelationships struct {
	BundleID     relationship   `json:"bundleId"`
	Certificates []relationship `json:"certificates"`
	Devices      []relationship `json:"devices"`
}

type profileResponse struct {
	Data Profile `json:"data"`
}

type profilesResponse struct {
	Data []Profile `json:"data"`
}

// CreateProfile creates a provisioning profile bound to a bundle id resource.
// Certificate and device relationships are sent empty; the backend fills in
// defaults where the profile type allows it.
func (c *Client) CreateProfile(ctx context.Context, name string, profileType ProfileType, bundleIDResource string) (*Profile, error) {
	body := profileCreateRequest{
		Data: profileCreateData{
			Attributes: profileCreateAttributes{Name: name, ProfileType: string(profileType)},
			Relationships: profileCreateRelationships{
				BundleID:     relationship{Data: relationshipData{ID: bundleIDResource, Type: "bundleIds"}},
				Certificates: []relationship{},
				Devices:      []relationship{},
			},
			Type: "profiles",
		},
	}

	var resp profileResponse
	if err := c.doJSON(ctx, http.MethodPost, c.restURL+"/profiles", body, &resp); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return &resp.Data, nil
}

// ListProfiles returns all provisioning profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var resp profilesResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/profiles", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return resp.Data, nil
}

// GetProfile returns one profile by id.
func (c *Client) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var resp profileResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/profiles/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}
	return &resp.Data, nil
}

// DeleteProfile deletes a profile by id.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.restURL+"/profiles/"+id, nil, nil); err != nil {
		return fmt.Errorf("deleting profile %s: %w", id, err)
	}
	return nil
}
