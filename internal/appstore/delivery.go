package appstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// UploadOperation is one server-assigned piece of a chunked transfer: a byte
// range of the source file and the destination URL it must be PUT to. The
// operations of a delivery file form a non-overlapping partition of the file.
type UploadOperation struct {
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	URL    string `json:"url"`
}

type deliveryFile struct {
	ID         string
	Operations []UploadOperation
}

type deliveryFileCreateRequest struct {
	Data deliveryFileCreateData `json:"data"`
}

type deliveryFileCreateData struct {
	Attributes    deliveryFileCreateAttributes    `json:"attributes"`
	Relationships deliveryFileCreateRelationships `json:"relationships"`
	Type          string                          `json:"type"`
}

type deliveryFileCreateAttributes struct {
	AssetType          string `json:"assetType"`
	FileName           string `json:"fileName"`
	FileSize           int64  `json:"fileSize"`
	SourceFileChecksum string `json:"sourceFileChecksum"`
	UTI                string `json:"uti"`
}

type deliveryFileCreateRelationships struct {
	Build relationship `json:"build"`
}

type deliveryFileCreateResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			UploadOperations []UploadOperation `json:"uploadOperations"`
		} `json:"attributes"`
	} `json:"data"`
}

type deliveryFileUpdateRequest struct {
	Data deliveryFileUpdateData `json:"data"`
}

type deliveryFileUpdateData struct {
	Attributes deliveryFileUpdateAttributes `json:"attributes"`
	ID         string                       `json:"id"`
	Type       string                       `json:"type"`
}

type deliveryFileUpdateAttributes struct {
	Uploaded bool `json:"uploaded"`
}

// UploadBuildFile transfers the file at path to the delivery store for the
// given build: register a delivery file with the whole-file checksum, PUT
// every server-assigned byte range, then mark the delivery file uploaded.
// Any failure aborts before finalization; the half-uploaded delivery file is
// left as-is on the backend.
func (c *Client) UploadBuildFile(ctx context.Context, buildID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("checksumming %s: %w", path, err)
	}
	checksum := hex.EncodeToString(h.Sum(nil))

	df, err := c.createDeliveryFile(ctx, buildID, filepath.Base(path), size, checksum)
	if err != nil {
		return err
	}

	c.log.Info(ctx, "transferring delivery file", "delivery_file_id", df.ID,
		"size", size, "operations", len(df.Operations))

	if err := c.transferOperations(ctx, f, df.Operations); err != nil {
		return err
	}

	return c.finalizeDeliveryFile(ctx, df.ID)
}

func (c *Client) createDeliveryFile(ctx context.Context, buildID, fileName string, fileSize int64, checksum string) (*deliveryFile, error) {
	body := deliveryFileCreateRequest{
		Data: deliveryFileCreateData{
			Attributes: deliveryFileCreateAttributes{
				AssetType:          "ASSET_DESCRIPTION",
				FileName:           fileName,
				FileSize:           fileSize,
				SourceFileChecksum: checksum,
				UTI:                "public.binary",
			},
			Relationships: deliveryFileCreateRelationships{
				Build: relationship{Data: relationshipData{ID: buildID, Type: "builds"}},
			},
			Type: "buildDeliveryFiles",
		},
	}

	var resp deliveryFileCreateResponse
	if err := c.doJSON(ctx, http.MethodPost, c.irisURL+"/buildDeliveryFiles", body, &resp); err != nil {
		return nil, fmt.Errorf("creating delivery file: %w", err)
	}
	return &deliveryFile{ID: resp.Data.ID, Operations: resp.Data.Attributes.UploadOperations}, nil
}

// transferOperations PUTs every assigned byte range, reading each from the
// shared file handle. The ranges are disjoint, so with more than one worker
// they are fanned out concurrently; the group joins before the caller may
// finalize, and the first failure cancels the remaining transfers.
func (c *Client) transferOperations(ctx context.Context, src io.ReaderAt, ops []UploadOperation) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.uploadWorkers)

	for _, op := range ops {
		g.Go(func() error {
			buf := make([]byte, op.Length)
			if _, err := io.ReadFull(io.NewSectionReader(src, op.Offset, op.Length), buf); err != nil {
				return fmt.Errorf("reading range [%d,%d): %w", op.Offset, op.Offset+op.Length, err)
			}
			if err := c.putChunk(ctx, op.URL, buf); err != nil {
				return fmt.Errorf("uploading range [%d,%d): %w", op.Offset, op.Offset+op.Length, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *Client) finalizeDeliveryFile(ctx context.Context, id string) error {
	body := deliveryFileUpdateRequest{
		Data: deliveryFileUpdateData{
			Attributes: deliveryFileUpdateAttributes{Uploaded: true},
			ID:         id,
			Type:       "buildDeliveryFiles",
		},
	}

	if err := c.doJSON(ctx, http.MethodPatch, c.irisURL+"/buildDeliveryFiles", body, nil); err != nil {
		return fmt.Errorf("finalizing delivery file %s: %w", id, err)
	}
	return nil
}
