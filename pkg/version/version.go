package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var Version = "0.0.0-dev"
var Commit = ""
var BuildTime = ""

const releasesURL = "https://api.github.com/repos/diillson/escola-artifacts-go/releases/latest"

// populateFromBuildInfo preenche Version/Commit/BuildTime a partir do
// build info do Go quando ldflags não definiu uma versão.
func populateFromBuildInfo() {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if t := settings["vcs.time"]; BuildTime == "" && t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	// go install de um módulo com tag publica a versão do módulo principal
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = strings.TrimPrefix(v, "v")
		if strings.EqualFold(settings["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

func init() {
	populateFromBuildInfo()
}

// CheckLatestVersion avisa no console quando existe uma release mais nova.
// Falhas de rede são ignoradas em silêncio.
func CheckLatestVersion(currentVersion string) {
	// Versões dev não são verificadas
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	latest, err := LatestRelease(ctx, http.DefaultClient, releasesURL)
	if err != nil || !IsNewer(latest, currentVersion) {
		return
	}
	pterm.Warning.Println(fmt.Sprintf("A new version of Escola Artifacts is available: %s", latest))
	pterm.Info.Println("Please update using: go install github.com/diillson/escola-artifacts-go/cmd/escola-artifacts@latest")
}

// LatestRelease returns the tag of the latest GitHub release at url, without the "v" prefix.
func LatestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// IsNewer compares dotted numeric versions. Dev builds never trigger an update notice.
func IsNewer(latest, current string) bool {
	if latest == "" || strings.HasSuffix(current, "-dev") {
		return false
	}
	l, c := versionParts(latest), versionParts(current)
	for i := 0; i < len(l) || i < len(c); i++ {
		var lv, cv int
		if i < len(l) {
			lv = l[i]
		}
		if i < len(c) {
			cv = c[i]
		}
		if lv != cv {
			return lv > cv
		}
	}
	return false
}

func versionParts(v string) []int {
	v, _, _ = strings.Cut(strings.TrimPrefix(v, "v"), "-")
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i], _ = strconv.Atoi(f)
	}
	return parts
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, BuildTime)
	case BuildTime != "":
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}
}
