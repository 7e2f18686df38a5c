// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package hooks

import (
	"net/http"
	"net/url"
	"strings"
)

// AuthInfo identifies the client to the media server.
type AuthInfo struct {
	Client   string
	Device   string
	DeviceID string
	Version  string
	// Token is the API key or session token. Empty sends no token.
	Token string
}

// Header renders the MediaBrowser authorization value.
func (a AuthInfo) Header() string {
	parts := []string{
		field("Client", a.Client),
		field("Device", a.Device),
		field("DeviceId", a.DeviceID),
		field("Version", a.Version),
	}
	if a.Token != "" {
		parts = append(parts, field("Token", a.Token))
	}
	return "MediaBrowser " + strings.Join(parts, ", ")
}

func field(name, value string) string {
	return name + `="` + url.PathEscape(value) + `"`
}

// MediaBrowserAuth sets the Authorization header unless the caller already
// provided one.
func MediaBrowserAuth(info AuthInfo) Hook {
	value := info.Header()
	return Hook{Request: func(req *http.Request) {
		if req.Header.Get("Authorization") != "" {
			return
		}
		req.Header.Set("Authorization", value)
	}}
}
