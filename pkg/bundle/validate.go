package bundle

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that every input the declaration references exists on disk.
// Optional entries and the icon are dropped with a warning if they're missing;
// everything else is a hard error. The project root has to contain all inputs
// since the rendered spec references them relative to it.
func (d *Declaration) Validate(ctx context.Context, projectRoot string) error {
	missing := []string{}

	if d.Entry == "" {
		return eris.New("the declaration doesn't name an entry script")
	}

	if _, err := os.Stat(filepath.Join(projectRoot, d.Entry)); err != nil {
		missing = append(missing, d.Entry)
	}

	d.Binaries = filterEntries(ctx, projectRoot, d.Binaries, &missing)
	d.Datas = filterEntries(ctx, projectRoot, d.Datas, &missing)

	if d.Icon != "" {
		if _, err := os.Stat(filepath.Join(projectRoot, d.Icon)); err != nil {
			log(ctx).Warn().Msgf("icon %s not found, the executable is built without one", d.Icon)
			d.Icon = ""
		}
	}

	if len(missing) > 0 {
		return eris.Errorf("declared build inputs are missing: %s", strings.Join(missing, ", "))
	}

	return nil
}

func filterEntries(ctx context.Context, projectRoot string, entries []Entry, missing *[]string) []Entry {
	kept := entries[:0]
	for _, entry := range entries {
		_, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(entry.Source)))
		if err == nil {
			kept = append(kept, entry)
			continue
		}

		if entry.Optional {
			log(ctx).Warn().Msgf("skipping optional entry %s", entry.Source)
		} else {
			*missing = append(*missing, entry.Source)
		}
	}

	return kept
}
