package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// releaseURL is the GitHub API endpoint for the latest release
var releaseURL = "https://api.github.com/repos/quadeer/termfolio/releases/latest"

// GitHubRelease represents the GitHub API release response
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdate checks if a newer version is available
// Returns (latestVersion, updateAvailable, error)
func CheckForUpdate(ctx context.Context, current string) (string, bool, error) {
	// Skip check for dev builds
	if current == "dev" || current == "" {
		return "", false, nil
	}

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "termfolio/"+current)

	resp, err := client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false, err
	}

	return release.TagName, compareVersions(release.TagName, current) > 0, nil
}

// compareVersions compares two semantic versions, with or without the
// leading "v". Returns: 1 if a > b, -1 if a < b, 0 if equal. Invalid
// versions sort before valid ones.
func compareVersions(a, b string) int {
	return semver.Compare(canonicalVersion(a), canonicalVersion(b))
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// UpdateCommand is shown when a newer release exists
const UpdateCommand = "go install github.com/quadeer/termfolio@latest"
