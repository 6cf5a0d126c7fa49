package appstore

import (
	"context"
	"fmt"
	"net/http"
)

// platformIOS is the fixed platform value for registered builds.
const platformIOS = "IOS"

// JSON:API relationship envelopes shared by the iris request documents.
type relationship struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type buildCreateRequest struct {
	Data buildCreateData `json:"data"`
}

type buildCreateData struct {
	Attributes    buildCreateAttributes    `json:"attributes"`
	Relationships buildCreateRelationships `json:"relationships"`
	Type          string                   `json:"type"`
}

type buildCreateAttributes struct {
	CFBundleShortVersionString string `json:"cfBundleShortVersionString"`
	CFBundleVersion            string `json:"cfBundleVersion"`
	Platform                   string `json:"platform"`
}

type buildCreateRelationships struct {
	App relationship `json:"app"`
}

type buildCreateResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateBuild registers a build record for the app identified by appleID and
// returns the backend-assigned build id. There is no idempotency key; calling
// it twice creates two builds.
func (c *Client) CreateBuild(ctx context.Context, appleID, buildVersion, shortVersion string) (string, error) {
	body := buildCreateRequest{
		Data: buildCreateData{
			Attributes: buildCreateAttributes{
				CFBundleShortVersionString: shortVersion,
				CFBundleVersion:            buildVersion,
				Platform:                   platformIOS,
			},
			Relationships: buildCreateRelationships{
				App: relationship{Data: relationshipData{ID: appleID, Type: "apps"}},
			},
			Type: "builds",
		},
	}

	var resp buildCreateResponse
	if err := c.doJSON(ctx, http.MethodPost, c.irisURL+"/builds", body, &resp); err != nil {
		return "", fmt.Errorf("creating build: %w", err)
	}
	return resp.Data.ID, nil
}
