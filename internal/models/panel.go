// Package models contains data structures used across handlers
package models

// TreeEntry is one rendered node of the file tree.
type TreeEntry struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	IsDir    bool        `json:"is_dir"`
	Expanded bool        `json:"expanded,omitempty"`
	Children []TreeEntry `json:"children,omitempty"`
}

// TreeResponse is the payload of GET /api/tree.
type TreeResponse struct {
	Refreshing bool        `json:"refreshing"`
	Entries    []TreeEntry `json:"entries"`
}

// ConnectionView is a connection record with secrets redacted.
type ConnectionView struct {
	Name        string `json:"name"`
	CloudType   string `json:"cloud_type"`
	EndpointURL string `json:"endpoint_url,omitempty"`
	RegionName  string `json:"region_name,omitempty"`
	BucketName  string `json:"bucket_name"`
	Active      bool   `json:"active"`
}

// ConnectionRequest is the body for creating or updating a connection.
type ConnectionRequest struct {
	Name        string `json:"name"`
	CloudType   string `json:"cloud_type"`
	EndpointURL string `json:"endpoint_url"`
	AccessKey   string `json:"access_key"`
	SecretKey   string `json:"secret_key"`
	RegionName  string `json:"region_name"`
	BucketName  string `json:"bucket_name"`
}

// ObjectRequest addresses one object, optionally with a local file.
type ObjectRequest struct {
	Key       string `json:"key"`
	LocalPath string `json:"local_path,omitempty"`
}

// ToggleRequest flips the expansion state of a folder path.
type ToggleRequest struct {
	Path string `json:"path"`
}
