package appstore

import (
	"context"

	"github.com/dvc94ch/asconnect/internal/bundle"
)

// Upload submits the package at path as a new build. Steps run strictly in
// dependency order: negotiate a legacy session, extract the bundle metadata,
// resolve the app identity, register a build record, then transfer the
// binary. Every step either fully succeeds or the whole submission is
// abandoned; there is no retry and no cleanup of records created by earlier
// steps.
func (c *Client) Upload(ctx context.Context, path string) error {
	session, err := c.NegotiateSession(ctx)
	if err != nil {
		return err
	}

	meta, err := bundle.ExtractMetadata(path)
	if err != nil {
		return err
	}

	app, err := c.LookupApp(ctx, session, meta.BundleIdentifier)
	if err != nil {
		return err
	}

	c.log.Info(ctx, "resolved app", "bundle_id", app.BundleID, "apple_id", app.AppleID)

	buildID, err := c.CreateBuild(ctx, app.AppleID, meta.BuildVersion, meta.ShortVersionString)
	if err != nil {
		return err
	}

	c.log.Info(ctx, "registered build", "build_id", buildID,
		"version", meta.BuildVersion, "short_version", meta.ShortVersionString)

	return c.UploadBuildFile(ctx, buildID, path)
}
