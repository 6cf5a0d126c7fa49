// Package bundle reads application metadata out of .ipa package archives.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// Metadata holds the identifying strings embedded in a package's Info.plist.
// All three fields are required; extraction never returns a partial result.
type Metadata struct {
	BundleIdentifier   string
	BuildVersion       string
	ShortVersionString string
}

// ExtractMetadata opens the package as a zip archive, locates the property
// list at Payload/<stem>.app/Info.plist (where <stem> is the package file
// name without extension) and reads the bundle identifier and the two
// version strings out of it.
func ExtractMetadata(path string) (*Metadata, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", path, err)
	}
	defer zr.Close()

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("Payload/%s.app/Info.plist", stem)

	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("package %s has no %s: %w", path, name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	var dict map[string]any
	if _, err := plist.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	bundleID, err := requireString(dict, "CFBundleIdentifier")
	if err != nil {
		return nil, err
	}
	buildVersion, err := requireString(dict, "CFBundleVersion")
	if err != nil {
		return nil, err
	}
	shortVersion, err := requireString(dict, "CFBundleShortVersionString")
	if err != nil {
		return nil, err
	}

	return &Metadata{
		BundleIdentifier:   bundleID,
		BuildVersion:       buildVersion,
		ShortVersionString: shortVersion,
	}, nil
}

func requireString(dict map[string]any, key string) (string, error) {
	v, ok := dict[key]
	if !ok {
		return "", fmt.Errorf("Info.plist: missing required key %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("Info.plist: key %s is not a string", key)
	}
	return s, nil
}
