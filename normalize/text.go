package normalize

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vegasq/parquet2jsonl/canonical"
	"github.com/vegasq/parquet2jsonl/typed"
)

// Layouts used to render temporal scalars. Trailing zeros of the fraction are
// dropped.
const (
	TimestampLayout      = "2006-01-02T15:04:05.999999999Z07:00"
	NaiveTimestampLayout = "2006-01-02T15:04:05.999999999"
	DateLayout           = "2006-01-02"
	TimeOfDayLayout      = "15:04:05.999999999"
)

// FormatTime renders a temporal scalar. Zoned timestamps are shown in UTC.
func FormatTime(v typed.Time) string {
	switch v.Kind {
	case typed.Date:
		return v.T.Format(DateLayout)
	case typed.TimeOfDay:
		return v.T.Format(TimeOfDayLayout)
	default:
		if v.Zoned {
			return v.T.UTC().Format(TimestampLayout)
		}
		return v.T.Format(NaiveTimestampLayout)
	}
}

// FormatBytes renders a byte sequence as padded standard base64.
func FormatBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// FormatDuration renders a duration in Go syntax, e.g. "1h2m3.5s".
func FormatDuration(d typed.Duration) string {
	return time.Duration(d).String()
}

// FormatUUID renders a UUID in its lower-case 8-4-4-4-12 form.
func FormatUUID(u typed.UUID) string {
	return uuid.UUID(u).String()
}

// keyText coerces a normalized map key to an object key.
func keyText(k canonical.Value) (string, error) {
	switch k := k.(type) {
	case canonical.Text:
		return string(k), nil
	case canonical.Int:
		return strconv.FormatInt(int64(k), 10), nil
	case canonical.Uint:
		return strconv.FormatUint(uint64(k), 10), nil
	case canonical.Float:
		return canonical.FormatFloat(k.V, k.Bits), nil
	case canonical.Bool:
		return strconv.FormatBool(bool(k)), nil
	default:
		b, err := canonical.Marshal(k)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
