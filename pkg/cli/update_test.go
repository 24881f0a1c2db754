package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickLatestRelease(t *testing.T) {
	releases := []githubRelease{
		{TagName: "v0.9.0", Assets: []githubAsset{{Name: "bicubic_linux_amd64.tar.gz", BrowserDownloadURL: "u090"}}},
		{TagName: "v1.2.0", Prerelease: true},
		{TagName: "v1.3.0", Draft: true},
		{TagName: "nightly"},
		{TagName: "release-1.1.0", Assets: []githubAsset{
			{Name: "checksums.txt", BrowserDownloadURL: "sums"},
			{Name: "bicubic_darwin_arm64.tar.gz", BrowserDownloadURL: "mac"},
			{Name: "bicubic_linux_arm64.tar.gz", BrowserDownloadURL: "linux-arm"},
			{Name: "bicubic_linux_amd64.tar.gz", BrowserDownloadURL: "linux-amd"},
		}},
		{TagName: "latest", Name: "Release 1.0.5"},
	}
	rel, ok := pickLatestRelease(releases, "linux", "amd64")
	require.True(t, ok)
	assert.Equal(t, semver.MustParse("1.1.0"), rel.Version)
	assert.Equal(t, "linux-amd", rel.AssetURL)

	rel, ok = pickLatestRelease(releases, "darwin", "arm64")
	require.True(t, ok)
	assert.Equal(t, "mac", rel.AssetURL)

	_, ok = pickLatestRelease([]githubRelease{{TagName: "nightly"}, {TagName: "v2.0.0", Draft: true}}, "linux", "amd64")
	assert.False(t, ok)
}

func TestParseReleaseVersionFallsBackToName(t *testing.T) {
	v, ok := parseReleaseVersion(githubRelease{TagName: "latest", Name: "bicubic v2.1.3-rc.1"})
	require.True(t, ok)
	assert.Equal(t, semver.MustParse("2.1.3-rc.1"), v)
}

func testUpdater(current string, rel *selfupdate.Release, input string) (*updater, *bytes.Buffer, *[]string) {
	var out bytes.Buffer
	var applied []string
	u := &updater{
		out:     &out,
		in:      strings.NewReader(input),
		current: current,
		detect: func(context.Context) (*selfupdate.Release, bool, error) {
			return rel, rel != nil, nil
		},
		apply: func(url, exe string) error {
			applied = append(applied, url)
			return nil
		},
	}
	return u, &out, &applied
}

func TestUpdaterUpToDate(t *testing.T) {
	u, out, applied := testUpdater("1.1.0", &selfupdate.Release{Version: semver.MustParse("1.1.0"), AssetURL: "x"}, "")
	require.NoError(t, u.run(context.Background()))
	assert.Contains(t, out.String(), "already running the latest version")
	assert.Empty(t, *applied)
}

func TestUpdaterPromptsAndApplies(t *testing.T) {
	rel := &selfupdate.Release{Version: semver.MustParse("1.2.0"), AssetURL: "asset"}

	u, out, applied := testUpdater("v1.1.0", rel, "n\n")
	require.NoError(t, u.run(context.Background()))
	assert.Contains(t, out.String(), "Update cancelled.")
	assert.Empty(t, *applied)

	u, out, applied = testUpdater("1.1.0", rel, "yes\n")
	require.NoError(t, u.run(context.Background()))
	assert.Contains(t, out.String(), "Updated to version 1.2.0")
	assert.Equal(t, []string{"asset"}, *applied)

	u, _, applied = testUpdater("1.1.0", rel, "")
	u.yes = true
	require.NoError(t, u.run(context.Background()))
	assert.Equal(t, []string{"asset"}, *applied)
}

func TestUpdaterNoRelease(t *testing.T) {
	u, out, _ := testUpdater("1.0.0", nil, "")
	require.NoError(t, u.run(context.Background()))
	assert.Contains(t, out.String(), "No releases found")
}

func TestUpdaterErrors(t *testing.T) {
	u, _, _ := testUpdater("1.0.0", nil, "")
	u.detect = func(context.Context) (*selfupdate.Release, bool, error) {
		return nil, false, errors.New("offline")
	}
	assert.ErrorContains(t, u.run(context.Background()), "offline")

	u, _, _ = testUpdater("1.0.0", &selfupdate.Release{Version: semver.MustParse("2.0.0"), AssetURL: "a"}, "y\n")
	u.apply = func(string, string) error { return errors.New("disk full") }
	assert.ErrorContains(t, u.run(context.Background()), "disk full")
}
