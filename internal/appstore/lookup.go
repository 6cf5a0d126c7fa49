package appstore

import (
	"context"
	"fmt"
)

// Candidate filter values. Only first-party iOS apps are eligible upload
// targets on this surface.
const (
	softwareTypeIOSApp = "iOS App"
	softwareTypePurple = "Purple"
)

// AppIdentity is the backend's identity for an application: the opaque
// numeric id joined to the bundle id it was resolved from.
type AppIdentity struct {
	BundleID     string
	AppleID      string
	Type         string
	SoftwareType string
}

type softwareAttribute struct {
	AppleID          string `json:"AppleID"`
	Type             string `json:"Type"`
	SoftwareTypeEnum string `json:"SoftwareTypeEnum"`
}

type lookupResult struct {
	Attributes []softwareAttribute `json:"attributes"`
}

// LookupApp resolves a bundle identifier to the backend's numeric app id.
// Candidates are filtered to iOS apps of software type "Purple"; an empty or
// non-matching list yields ErrAppNotFound. When several candidates match,
// the first is accepted unless the client was built with strict lookup, in
// which case ErrAmbiguousApp is returned.
func (c *Client) LookupApp(ctx context.Context, session *Session, bundleID string) (*AppIdentity, error) {
	var res lookupResult
	err := c.rpc(ctx, session, "lookupSoftwareForBundleId", map[string]any{"BundleId": bundleID}, &res)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", bundleID, err)
	}

	var matches []softwareAttribute
	for _, attr := range res.Attributes {
		if attr.Type == softwareTypeIOSApp && attr.SoftwareTypeEnum == softwareTypePurple {
			matches = append(matches, attr)
		}
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrAppNotFound, bundleID)
	case len(matches) > 1 && c.strictLookup:
		return nil, fmt.Errorf("%w: %s matched %d candidates", ErrAmbiguousApp, bundleID, len(matches))
	}

	m := matches[0]
	return &AppIdentity{
		BundleID:     bundleID,
		AppleID:      m.AppleID,
		Type:         m.Type,
		SoftwareType: m.SoftwareTypeEnum,
	}, nil
}
