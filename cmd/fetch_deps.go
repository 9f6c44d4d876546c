package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/multiplecam/build-tools/pkg"
)

// runtimeDep describes one downloadable native dependency from DEPS.yml
// (the libVLC binaries and plugins the bundle embeds).
type runtimeDep struct {
	Condition  string `yaml:"if,omitempty"`
	Rejections string `yaml:"ifNot,omitempty"`
	URL        string
	Dest       string
	Sha256     string
	Strip      int
	MarkExec   []string `yaml:"markExec,omitempty"`
}

type depsConfig struct {
	Vars map[string]string
	Deps map[string]runtimeDep
}

const (
	depsFile  = "DEPS.yml"
	stampFile = "DEPS.stamps"
)

var fetchDepsCmd = &cobra.Command{
	Use:   "fetch-deps",
	Short: "Downloads and unpacks the native runtime dependencies",
	Long: `Downloads and unpacks the dependencies listed in DEPS.yml (the libVLC
runtime the packaged executable ships with). Dependencies that are already
up to date according to the stamp file are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		update, err := cmd.Flags().GetBool("update")
		if err != nil {
			return err
		}

		root, _, err := pkg.FindProjectRoot()
		if err != nil {
			return err
		}

		pkg.PrintTask("Loading config")
		cfg, rawCfg, stamps, err := loadDepsConfig(root)
		if err != nil {
			return err
		}

		pkg.PrintTask("Downloading dependencies")
		fetchErr := fetchDeps(root, cfg, rawCfg, stamps, update)

		stampData, err := json.Marshal(stamps)
		if err == nil {
			err = os.WriteFile(filepath.Join(root, stampFile), stampData, 0660)
		}
		if err != nil {
			pkg.PrintError(err.Error())
		}

		if fetchErr == nil {
			pkg.PrintTask("Done")
		}
		return fetchErr
	},
}

func init() {
	rootCmd.AddCommand(fetchDepsCmd)
	fetchDepsCmd.Flags().BoolP("update", "u", false, "update the checksums in DEPS.yml")
}

func loadDepsConfig(root string) (depsConfig, string, map[string]string, error) {
	var cfg depsConfig

	cfgPath := filepath.Join(root, depsFile)
	cfgData, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, "", nil, eris.Wrapf(err, "could not open %s", cfgPath)
	}

	err = yaml.Unmarshal(cfgData, &cfg)
	if err != nil {
		return cfg, "", nil, eris.Wrapf(err, "failed to parse %s", cfgPath)
	}

	stamps := map[string]string{}
	stampData, err := os.ReadFile(filepath.Join(root, stampFile))
	if err == nil {
		err = json.Unmarshal(stampData, &stamps)
		if err != nil {
			return cfg, "", nil, eris.Wrapf(err, "failed to parse the stamp file %s", stampFile)
		}
	} else if !eris.Is(err, os.ErrNotExist) {
		return cfg, "", nil, eris.Wrapf(err, "failed to read the stamp file %s", stampFile)
	}

	return cfg, string(cfgData), stamps, nil
}

var depVarPattern = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// resolveDep interpolates {VAR} placeholders in the URL and evaluates the
// dep's if/ifNot conditions. It returns false if the dep doesn't apply to
// this platform.
func resolveDep(dep *runtimeDep, vars map[string]string) bool {
	dep.URL = depVarPattern.ReplaceAllStringFunc(dep.URL, func(name string) string {
		return vars[name[1:len(name)-1]]
	})

	for _, condition := range strings.Split(dep.Condition, ",") {
		condition = strings.TrimSpace(condition)
		if condition == "" {
			continue
		}

		if vars[condition] == "" {
			return false
		}
	}

	for _, condition := range strings.Split(dep.Rejections, ",") {
		condition = strings.TrimSpace(condition)
		if condition == "" {
			continue
		}

		if vars[condition] != "" {
			return false
		}
	}

	return true
}

func platformVars(cfg depsConfig) map[string]string {
	vars := map[string]string{}
	for name, value := range cfg.Vars {
		vars[name] = value
	}

	vars[runtime.GOOS] = "true"
	vars[runtime.GOARCH] = "true"
	if os.Getenv("CI") == "true" {
		vars["ci"] = "true"
	}

	return vars
}

func fetchDeps(root string, cfg depsConfig, rawCfg string, stamps map[string]string, update bool) error {
	client := &http.Client{Timeout: 30 * time.Minute}
	vars := platformVars(cfg)
	newChecksums := map[string]string{}

	names := make([]string, 0, len(cfg.Deps))
	for name := range cfg.Deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dep := cfg.Deps[name]

		// the URL placeholders have to be resolved even for skipped deps when
		// updating checksums
		applies := resolveDep(&dep, vars)
		if !applies && !update {
			continue
		}

		destPath := filepath.Join(root, dep.Dest)
		destInfo, err := os.Stat(destPath)
		destExists := err == nil

		stampToken := dep.URL + "#" + dep.Sha256
		if stamps[name] == stampToken && destExists {
			continue
		}

		pkg.PrintSubtask(name + ":  " + dep.URL)
		if dep.Sha256 == "" && !update {
			return eris.Errorf("dependency %s doesn't have a checksum", name)
		}

		archive, digest, err := downloadDep(client, dep.URL)
		if err != nil {
			return err
		}
		defer func() {
			archive.Close()
			os.Remove(archive.Name())
		}()

		if digest != dep.Sha256 {
			if !update {
				return eris.Errorf("checksum mismatch for %s: got %s, want %s", name, digest, dep.Sha256)
			}
			newChecksums[name] = digest
		}

		if !applies {
			continue
		}

		// a dep extracting into the project root itself is never wiped
		if destExists && dep.Dest != "" && dep.Dest != "." {
			pkg.PrintSubtask("removing stale " + destPath)
			if destInfo.IsDir() {
				err = os.RemoveAll(destPath)
			} else {
				err = os.Remove(destPath)
			}
			if err != nil {
				return eris.Wrapf(err, "failed to remove %s", destPath)
			}
		}

		err = extractDep(archive, root, dep)
		if err != nil {
			return eris.Wrapf(err, "failed to unpack %s", name)
		}

		if runtime.GOOS != "windows" {
			// .zip files don't carry permissions so binaries have to be fixed
			// up manually
			for _, binPath := range dep.MarkExec {
				binPath = filepath.Join(root, dep.Dest, binPath)
				fi, err := os.Stat(binPath)
				if err != nil {
					return eris.Wrapf(err, "failed to read permissions for %s", binPath)
				}

				err = os.Chmod(binPath, fi.Mode()|0700)
				if err != nil {
					return eris.Wrapf(err, "failed to mark %s as executable", binPath)
				}
			}
		}

		stamps[name] = stampToken
	}

	if update && len(newChecksums) > 0 {
		pkg.PrintTask("Updating " + depsFile)
		updated, err := rewriteChecksums(rawCfg, cfg, newChecksums)
		if err != nil {
			return err
		}

		err = os.WriteFile(filepath.Join(root, depsFile), []byte(updated), 0660)
		if err != nil {
			return eris.Wrapf(err, "failed to write %s", depsFile)
		}
	}

	return nil
}

// downloadDep downloads the given URL to a temporary file and returns the open
// handle (positioned at the start) together with the content's SHA-256 digest.
func downloadDep(client *http.Client, url string) (*os.File, string, error) {
	handle, err := os.CreateTemp("", "mcbuild-dl-*")
	if err != nil {
		return nil, "", eris.Wrap(err, "failed to create a download file")
	}

	resp, err := client.Get(url)
	if err != nil {
		handle.Close()
		os.Remove(handle.Name())
		return nil, "", eris.Wrapf(err, "failed to start the download of %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		handle.Close()
		os.Remove(handle.Name())
		return nil, "", eris.Errorf("download of %s failed with status %s", url, resp.Status)
	}

	hash := sha256.New()
	bar := depProgressBar(resp.ContentLength, "     download")
	_, err = io.Copy(io.MultiWriter(handle, hash, bar), resp.Body)
	bar.Finish()
	if err != nil {
		handle.Close()
		os.Remove(handle.Name())
		return nil, "", eris.Wrapf(err, "failed during the download of %s", url)
	}

	_, err = handle.Seek(0, io.SeekStart)
	if err != nil {
		handle.Close()
		os.Remove(handle.Name())
		return nil, "", eris.Wrap(err, "failed to rewind the download file")
	}

	return handle, hex.EncodeToString(hash.Sum(nil)), nil
}

func depProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		// progress bars just produce noise on CI logs
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

// rewriteChecksums updates the sha256 lines in the raw DEPS.yml content,
// preserving everything else (including comments) verbatim.
func rewriteChecksums(rawCfg string, cfg depsConfig, newChecksums map[string]string) (string, error) {
	for name, digest := range newChecksums {
		// anchor to the indented mapping key so a name showing up earlier in a
		// comment or URL can't hijack the rewrite
		keyPattern := regexp.MustCompile(`(?m)^[ \t]+` + regexp.QuoteMeta(name) + `:[ \t]*$`)
		loc := keyPattern.FindStringIndex(rawCfg)
		if loc == nil {
			return "", eris.Errorf("failed to find the section for %s", name)
		}
		pos := loc[0]

		old := cfg.Deps[name].Sha256
		if old == "" {
			lineEnd := strings.Index(rawCfg[loc[1]:], "\n")
			if lineEnd == -1 {
				return "", eris.Errorf("malformed section for %s", name)
			}

			insertAt := loc[1] + lineEnd + 1
			rawCfg = rawCfg[:insertAt] + "    sha256: " + digest + "\n" + rawCfg[insertAt:]
			continue
		}

		subPos := strings.Index(rawCfg[pos:], "sha256: "+old)
		if subPos == -1 {
			return "", eris.Errorf("failed to find the checksum for %s", name)
		}

		start := pos + subPos + len("sha256: ")
		rawCfg = rawCfg[:start] + digest + rawCfg[start+len(old):]
	}

	return rawCfg, nil
}
