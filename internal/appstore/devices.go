package appstore

import (
	"context"
	"fmt"
	"net/http"
)

// Platform names a bundle id platform on the REST API.
type Platform string

const (
	PlatformIOS   Platform = "IOS"
	PlatformMacOS Platform = "MAC_OS"
)

// ParsePlatform maps the CLI spelling to the API value.
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "ios":
		return PlatformIOS, nil
	case "macos":
		return PlatformMacOS, nil
	default:
		return "", fmt.Errorf("unsupported platform %q (want ios or macos)", s)
	}
}

// Device is a registered development device.
type Device struct {
	ID         string           `json:"id"`
	Attributes DeviceAttributes `json:"attributes"`
}

type DeviceAttributes struct {
	DeviceClass string `json:"deviceClass"`
	Model       string `json:"model"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	Status      string `json:"status"`
	UDID        string `json:"udid"`
	AddedDate   string `json:"addedDate"`
}

type deviceCreateRequest struct {
	Data deviceCreateData `json:"data"`
}

type deviceCreateData struct {
	Attributes deviceCreateAttributes `json:"attributes"`
	Type       string                 `json:"type"`
}

type deviceCreateAttributes struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	UDID     string `json:"udid"`
}

type deviceResponse struct {
	Data Device `json:"data"`
}

type devicesResponse struct {
	Data []Device `json:"data"`
}

// RegisterDevice registers a device by its UDID.
func (c *Client) RegisterDevice(ctx context.Context, name string, platform Platform, udid string) (*Device, error) {
	body := deviceCreateRequest{
		Data: deviceCreateData{
			Attributes: deviceCreateAttributes{Name: name, Platform: string(platform), UDID: udid},
			Type:       "devices",
		},
	}

	var resp deviceResponse
	if err := c.doJSON(ctx, http.MethodPost, c.restURL+"/devices", body, &resp); err != nil {
		return nil, fmt.Errorf("registering device: %w", err)
	}
	return &resp.Data, nil
}

// ListDevices returns all registered devices.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var resp devicesResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/devices", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	return resp.Data, nil
}

// GetDevice returns one device by id.
func (c *Client) GetDevice(ctx context.Context, id string) (*Device, error) {
	var resp deviceResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/devices/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("getting device %s: %w", id, err)
	}
	return &resp.Data, nil
}
