package metadata

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// binaryPreviewBytes is how many bytes of a binary value are shown
const binaryPreviewBytes = 32

// RenderValue converts a scanned value to its display string. The second
// return value is true for NULL, in which case the string is empty and the
// caller substitutes its placeholder.
func RenderValue(val any, col models.ColumnDescriptor) (string, bool) {
	if val == nil {
		return "", true
	}

	switch v := val.(type) {
	case string:
		return v, false
	case []byte:
		return renderBytes(v, col.Kind), false
	case bool:
		return strconv.FormatBool(v), false
	case int64:
		if col.Kind == models.KindBoolean && (v == 0 || v == 1) {
			return strconv.FormatBool(v == 1), false
		}
		return strconv.FormatInt(v, 10), false
	case int32:
		return strconv.FormatInt(int64(v), 10), false
	case int:
		return strconv.Itoa(v), false
	case uint64:
		return strconv.FormatUint(v, 10), false
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), false
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), false
	case time.Time:
		return renderTime(v, col.Type), false
	case [16]byte:
		return uuid.UUID(v).String(), false
	case map[string]any, []any:
		// JSON documents decoded by the driver
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val), false
		}
		return string(jsonBytes), false
	case fmt.Stringer:
		return v.String(), false
	default:
		return fmt.Sprintf("%v", val), false
	}
}

func renderBytes(b []byte, kind models.ColumnKind) string {
	if kind != models.KindBinary && utf8.Valid(b) {
		return string(b)
	}

	preview := b
	if len(preview) > binaryPreviewBytes {
		preview = preview[:binaryPreviewBytes]
	}
	s := `\x` + hex.EncodeToString(preview)
	if len(b) > binaryPreviewBytes {
		s += "…"
	}
	return s
}

func renderTime(t time.Time, declared string) string {
	if strings.EqualFold(strings.TrimSpace(declared), "date") {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
