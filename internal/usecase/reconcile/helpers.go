package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/futig/structure-engine/internal/pkg/diff"
	"github.com/google/uuid"
)

const recordKeyPrefix = "diff_"

// newRecordKey derives diff_<YYYYMMDD_HHMMSS_micro>_<suffix> from t.
// The random suffix keeps keys distinct within the same microsecond.
func newRecordKey(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%s_%06d_%s",
		recordKeyPrefix,
		t.Format("20060102_150405"),
		t.Nanosecond()/int(time.Microsecond),
		suffix,
	)
}

func encodeRecord(record entity.AuditRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toDiffStats(s diff.Stats) entity.DiffStats {
	return entity.DiffStats{
		Added:     s.Added,
		Removed:   s.Removed,
		Unchanged: s.Unchanged,
	}
}
