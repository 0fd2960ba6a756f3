package enc

import (
	"fmt"
	"log"
	"strings"

	"github.com/Cellyceos/Standards/internal/iso8211"
)

// Applier merges one opened update module's records into chart according
// to each record's RUIN. Merge semantics are out of scope for this
// module (see SPEC_FULL.md §1 and §4.8); NoopApplier is the default and
// only logs that an update file was found.
type Applier interface {
	Apply(update *iso8211.Module, sequence int, chart *Chart) error
}

// NoopApplier discovers update files without merging them.
type NoopApplier struct{}

func (NoopApplier) Apply(update *iso8211.Module, sequence int, chart *Chart) error {
	log.Printf("enc: found update %03d, no applier configured, skipping", sequence)
	return nil
}

// FindAndApplyUpdates discovers basePath's sibling update files
// (NAME.001, NAME.002, ...), stopping at the first missing sequence
// number, and invokes applier.Apply on each one it can open. A failure
// to open an update file stops the chain without failing Ingest.
func FindAndApplyUpdates(basePath string, chart *Chart, applier Applier) {
	if applier == nil {
		applier = NoopApplier{}
	}
	stem := strings.TrimSuffix(basePath, extOf(basePath))

	for n := 1; n <= 999; n++ {
		path := fmt.Sprintf("%s.%03d", stem, n)
		update, err := iso8211.Open(path)
		if err != nil {
			return
		}
		if err := applier.Apply(update, n, chart); err != nil {
			log.Printf("enc: applier failed on %s: %v", path, err)
		}
		update.Close()
	}
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}
