package engine

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/salescope/table"
)

// ============================================================================
// TEXT BUILDER — Display formatting and automatic alerts
// ============================================================================

// NotAvailable is shown in place of a value that is absent or not numeric.
const NotAvailable = "N/A"

// MissingAlertPercent is the missing-value share above which a warning is raised.
const MissingAlertPercent = 20.0

var printer = message.NewPrinter(language.English)

// FormatAmount renders v as a grouped integer followed by the currency label,
// e.g. "1,234 €". Fractions are truncated.
func FormatAmount(v any, currency string) string {
	n, ok := asInt(v)
	if !ok {
		return NotAvailable
	}
	if currency == "" {
		return printer.Sprintf("%d", n)
	}
	return printer.Sprintf("%d %s", n, currency)
}

// FormatCount renders v as a grouped integer, e.g. "1,234".
func FormatCount(v any) string {
	n, ok := asInt(v)
	if !ok {
		return NotAvailable
	}
	return printer.Sprintf("%d", n)
}

// FormatPercent renders a signed percent change, e.g. "+12.5%".
func FormatPercent(m Metric[float64]) string {
	v, ok := m.Get()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%+.1f%%", v)
}

func asInt(v any) (int64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case Metric[float64]:
		val, ok := x.Get()
		if !ok {
			return 0, false
		}
		f = val
	case Metric[int64]:
		val, ok := x.Get()
		return val, ok
	case Metric[int]:
		val, ok := x.Get()
		return int64(val), ok
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		val, ok := table.ToFloat(table.Str(x))
		if !ok {
			return 0, false
		}
		f = val
	case table.Value:
		val, ok := table.ToFloat(x)
		if !ok {
			return 0, false
		}
		f = val
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ============================================================================
// ALERTS
// ============================================================================

// BuildAlerts lists the automatic insights of a report: high missing share,
// duplicate rows, and the best and worst buckets of the revenue series.
// An empty list means nothing stood out.
func BuildAlerts(r *Report) []Alert {
	alerts := []Alert{}

	if r.Quality.MissingPercent > MissingAlertPercent {
		alerts = append(alerts, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("High missing-value rate: %g%%", r.Quality.MissingPercent),
		})
	}
	if r.Quality.Duplicates > 0 {
		alerts = append(alerts, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("%s duplicate rows detected", FormatCount(r.Quality.Duplicates)),
		})
	}

	if peak, ok := r.Peak.Get(); ok {
		alerts = append(alerts, Alert{
			Level: AlertInfo,
			Message: fmt.Sprintf("Best period: %s (%s)",
				peak.Start.Format("2006-01-02"), FormatAmount(peak.Value, r.Params.Currency)),
		})
	}
	if trough, ok := r.Trough.Get(); ok {
		alerts = append(alerts, Alert{
			Level: AlertInfo,
			Message: fmt.Sprintf("Worst period: %s (%s)",
				trough.Start.Format("2006-01-02"), FormatAmount(trough.Value, r.Params.Currency)),
		})
	}

	return alerts
}
