package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	TagName    string        `json:"tag_name"`
	Name       string        `json:"name"`
	Draft      bool          `json:"draft"`
	Prerelease bool          `json:"prerelease"`
	Assets     []githubAsset `json:"assets"`
}

// semverRe finds a version like v1.2.3 or 1.2.3-rc.1 inside a tag or release name.
var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// parseReleaseVersion extracts the semantic version of a release from its
// tag, falling back to its name.
func parseReleaseVersion(r githubRelease) (semver.Version, bool) {
	for _, s := range []string{r.TagName, r.Name} {
		m := semverRe.FindString(s)
		if m == "" {
			continue
		}
		if v, err := semver.Parse(strings.TrimPrefix(m, "v")); err == nil {
			return v, true
		}
	}
	return semver.Version{}, false
}

// pickAsset prefers an asset naming both goos and goarch, then one naming
// goos, then the first asset.
func pickAsset(assets []githubAsset, goos, goarch string) string {
	best, bestScore := "", -1
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		score := 0
		if strings.Contains(name, goos) {
			score += 2
		}
		if strings.Contains(name, goarch) {
			score++
		}
		if score > bestScore {
			best, bestScore = a.BrowserDownloadURL, score
		}
	}
	return best
}

// pickLatestRelease returns the highest published, non-prerelease release
// with a semver tag.
func pickLatestRelease(releases []githubRelease, goos, goarch string) (*selfupdate.Release, bool) {
	type candidate struct {
		ver semver.Version
		rel githubRelease
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := parseReleaseVersion(r)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{ver: v, rel: r})
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ver.GT(candidates[j].ver)
	})
	best := candidates[0]
	return &selfupdate.Release{
		Version:  best.ver,
		AssetURL: pickAsset(best.rel.Assets, goos, goarch),
		Name:     best.rel.Name,
	}, true
}

// detectLatest queries the GitHub Releases API for repo.
func detectLatest(ctx context.Context, repo string) (*selfupdate.Release, bool, error) {
	apiURL := fmt.Sprintf("https://api.github.com/repos/%s/releases", repo)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	rel, ok := pickLatestRelease(releases, runtime.GOOS, runtime.GOARCH)
	return rel, ok, nil
}

// updater runs the interactive self-update flow. detect and apply are
// swapped out in tests.
type updater struct {
	out     io.Writer
	in      io.Reader
	yes     bool
	current string
	detect  func(ctx context.Context) (*selfupdate.Release, bool, error)
	apply   func(assetURL, exe string) error
}

func newUpdater(out io.Writer, in io.Reader, yes bool) *updater {
	return &updater{
		out:     out,
		in:      in,
		yes:     yes,
		current: Version,
		detect: func(ctx context.Context) (*selfupdate.Release, bool, error) {
			return detectLatest(ctx, updateRepo)
		},
		apply: selfupdate.UpdateTo,
	}
}

func (u *updater) run(ctx context.Context) error {
	fmt.Fprintf(u.out, "Current version: %s\n", u.current)
	latest, found, err := u.detect(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found || latest == nil {
		fmt.Fprintf(u.out, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(u.out, "Latest version: %s\n", latest.Version)

	currentVer, perr := semver.Parse(strings.TrimPrefix(u.current, "v"))
	if perr != nil {
		fmt.Fprintf(u.out, "warning: could not parse current version %q: %v\n", u.current, perr)
	} else if latest.Version.LTE(currentVer) {
		fmt.Fprintf(u.out, "You are already running the latest version: %s.\n", currentVer)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Fprintf(u.out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}
	if !u.yes {
		fmt.Fprintf(u.out, "A new version (%s) is available. Update now? (y/N): ", latest.Version)
		line, err := bufio.NewReader(u.in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed reading input: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(u.out, "Update cancelled.")
			return nil
		}
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Fprintln(u.out, "Updating...")
	if err := u.apply(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(u.out, "Updated to version %s. Restart to use it.\n", latest.Version)
	return nil
}
