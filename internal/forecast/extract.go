package forecast

import (
	"fmt"
	"strconv"
	"strings"
)

// The upstream open-data service has shipped the same forecast payload with
// different key casings and nesting depths across dataset revisions. Every
// lookup below therefore goes through an ordered candidate-key list instead
// of a fixed schema.
var (
	recordsKeys     = []string{"records", "Records"}
	locationsKeys   = []string{"locations", "Locations"}
	locationKeys    = []string{"location", "Location"}
	areaNameKeys    = []string{"locationName", "LocationName"}
	elementListKeys = []string{"weatherElement", "WeatherElement"}
	elementNameKeys = []string{"elementName", "ElementName"}
	timeListKeys    = []string{"time", "Time"}
	valueListKeys   = []string{"elementValue", "ElementValue", "parameter", "Parameter"}
	scalarKeys      = []string{"value", "Value", "parameterName", "ParameterName"}
)

// Semantic fields resolved from element names: each set carries the short
// dataset code plus the human-readable labels seen in other revisions.
const (
	fieldTemp    = "temperature"
	fieldWx      = "condition"
	fieldPoP     = "rain_probability"
	fieldMinTemp = "min_temperature"
	fieldMaxTemp = "max_temperature"
)

var fieldAliases = map[string][]string{
	fieldTemp:    {"T", "溫度", "平均溫度"},
	fieldWx:      {"Wx", "天氣現象"},
	fieldPoP:     {"PoP", "PoP12h", "降雨機率", "12小時降雨機率"},
	fieldMinTemp: {"MinT", "最低溫度"},
	fieldMaxTemp: {"MaxT", "最高溫度"},
}

const (
	missingValue = "--"
	missingPoP   = "0"
)

// AreaForecast holds the display attributes for one normalized area.
type AreaForecast struct {
	Name    string
	MinTemp string
	MaxTemp string
	Wx      string
	PoP     string
}

// Line renders the per-area message line. Equal range ends collapse to a
// single value, which is also the rendering for a point-only forecast.
func (f AreaForecast) Line() string {
	temp := f.MinTemp
	if f.MinTemp != f.MaxTemp {
		temp = f.MinTemp + "~" + f.MaxTemp
	}
	return fmt.Sprintf("%s %s°%s(%s%%)", f.Name, temp, f.Wx, f.PoP)
}

var areaSuffixes = []string{" District", " Township", " City", "區", "鄉", "鎮", "市"}

// Normalize strips one trailing administrative-unit suffix from a display
// name. The result is the cache and grouping key.
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, suffix := range areaSuffixes {
		if strings.HasSuffix(trimmed, suffix) && len(trimmed) > len(suffix) {
			return strings.TrimSuffix(trimmed, suffix)
		}
	}
	return trimmed
}

// ExtractArea pulls one area's forecast out of a raw dataset payload.
// Returns ok=false when the payload structure or the requested area cannot
// be located; it never fails in a way that should stop other areas.
func ExtractArea(payload map[string]interface{}, requestedArea string) (AreaForecast, bool) {
	records, ok := pickMap(payload, recordsKeys)
	if !ok {
		return AreaForecast{}, false
	}

	areas, ok := locateAreaList(records)
	if !ok {
		return AreaForecast{}, false
	}

	area, ok := matchArea(areas, requestedArea)
	if !ok {
		return AreaForecast{}, false
	}

	elements, ok := pickList(area, elementListKeys)
	if !ok {
		return AreaForecast{}, false
	}

	fields := make(map[string]string)
	for _, raw := range elements {
		element, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		name, ok := pickString(element, elementNameKeys)
		if !ok {
			continue
		}

		semantic := resolveFieldName(name)
		if semantic == "" {
			continue
		}

		if value, ok := firstSlotValue(element); ok {
			fields[semantic] = value
		}
	}

	upstreamName, _ := pickString(area, areaNameKeys)

	return buildForecast(Normalize(upstreamName), fields), true
}

// locateAreaList finds the per-area record list. Some dataset revisions nest
// it one level deeper under a locations wrapper.
func locateAreaList(records map[string]interface{}) ([]interface{}, bool) {
	if areas, ok := pickList(records, locationKeys); ok {
		return areas, true
	}

	wrappers, ok := pickList(records, locationsKeys)
	if !ok || len(wrappers) == 0 {
		return nil, false
	}

	wrapper, ok := wrappers[0].(map[string]interface{})
	if !ok {
		return nil, false
	}

	return pickList(wrapper, locationKeys)
}

// matchArea returns the record whose name matches the requested area either
// exactly or by containment ("松山" matches "松山區").
func matchArea(areas []interface{}, requested string) (map[string]interface{}, bool) {
	for _, raw := range areas {
		area, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		name, ok := pickString(area, areaNameKeys)
		if !ok {
			continue
		}

		if name == requested || strings.Contains(name, requested) {
			return area, true
		}
	}
	return nil, false
}

func resolveFieldName(name string) string {
	for semantic, aliases := range fieldAliases {
		for _, alias := range aliases {
			if name == alias {
				return semantic
			}
		}
	}
	return ""
}

// firstSlotValue reads the earliest time slot's value for one element. The
// value container is either a list of value objects or a single parameter
// object, and the scalar inside it has drifted between key names.
func firstSlotValue(element map[string]interface{}) (string, bool) {
	times, ok := pickList(element, timeListKeys)
	if !ok || len(times) == 0 {
		return "", false
	}

	slot, ok := times[0].(map[string]interface{})
	if !ok {
		return "", false
	}

	container, ok := pickKey(slot, valueListKeys)
	if !ok {
		return "", false
	}

	switch v := container.(type) {
	case []interface{}:
		if len(v) == 0 {
			return "", false
		}
		obj, ok := v[0].(map[string]interface{})
		if !ok {
			return asString(v[0])
		}
		return pickString(obj, scalarKeys)
	case map[string]interface{}:
		return pickString(v, scalarKeys)
	default:
		return asString(container)
	}
}

func buildForecast(name string, fields map[string]string) AreaForecast {
	forecast := AreaForecast{
		Name:    name,
		MinTemp: missingValue,
		MaxTemp: missingValue,
		Wx:      missingValue,
		PoP:     missingPoP,
	}

	if wx, ok := fields[fieldWx]; ok {
		forecast.Wx = wx
	}
	if pop, ok := fields[fieldPoP]; ok {
		forecast.PoP = pop
	}

	minTemp, hasMin := fields[fieldMinTemp]
	maxTemp, hasMax := fields[fieldMaxTemp]
	if hasMin && hasMax {
		forecast.MinTemp = minTemp
		forecast.MaxTemp = maxTemp
		return forecast
	}

	// No explicit range: both ends take the point estimate.
	if temp, ok := fields[fieldTemp]; ok {
		forecast.MinTemp = temp
		forecast.MaxTemp = temp
	}
	return forecast
}

func pickKey(container map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := container[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func pickMap(container map[string]interface{}, keys []string) (map[string]interface{}, bool) {
	value, ok := pickKey(container, keys)
	if !ok {
		return nil, false
	}
	m, ok := value.(map[string]interface{})
	return m, ok
}

func pickList(container map[string]interface{}, keys []string) ([]interface{}, bool) {
	value, ok := pickKey(container, keys)
	if !ok {
		return nil, false
	}
	list, ok := value.([]interface{})
	return list, ok
}

func pickString(container map[string]interface{}, keys []string) (string, bool) {
	value, ok := pickKey(container, keys)
	if !ok {
		return "", false
	}
	return asString(value)
}

func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
