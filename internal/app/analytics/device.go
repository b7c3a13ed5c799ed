package analytics

import (
	"strings"

	"linkbio/internal/domain"
)

const (
	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
	DeviceTablet  = "Tablet"
	DeviceOther   = "Other"
)

var deviceOrder = []string{DeviceMobile, DeviceDesktop, DeviceTablet, DeviceOther}

// estimatedDeviceShare is the fallback split in percent of total clicks.
var estimatedDeviceShare = map[string]int64{
	DeviceMobile:  60,
	DeviceDesktop: 35,
	DeviceTablet:  4,
}

type CategoryCount struct {
	Category string
	Count    int64
}

type DeviceBreakdown struct {
	Categories  []CategoryCount
	IsEstimated bool
}

// ByDevice classifies clicks by device. Without any recorded device value
// it returns the fixed industry split of total clicks, flagged as estimated.
func ByDevice(links []domain.Link) DeviceBreakdown {
	counts := make(map[string]int64, len(deviceOrder))
	observed := false

	for _, l := range links {
		for _, ev := range l.ClickEvents {
			if !domain.HasValue(ev.Device) {
				continue
			}

			observed = true
			counts[ClassifyDevice(ev.Device)]++
		}
	}

	if !observed {
		return estimateDevices(links)
	}

	out := DeviceBreakdown{Categories: make([]CategoryCount, 0, len(deviceOrder))}
	for _, cat := range deviceOrder {
		if counts[cat] == 0 {
			continue
		}

		out.Categories = append(out.Categories, CategoryCount{Category: cat, Count: counts[cat]})
	}

	return out
}

// ClassifyDevice maps a raw device or user-agent string to a category.
// Rules apply in order, so an iPad user agent carrying "Mobile" is Mobile.
func ClassifyDevice(raw string) string {
	s := strings.ToLower(raw)

	switch {
	case containsAny(s, "mobile", "phone", "android", "iphone"):
		return DeviceMobile
	case containsAny(s, "tablet", "ipad"):
		return DeviceTablet
	case containsAny(s, "desktop", "laptop", "windows", "macintosh"):
		return DeviceDesktop
	default:
		return DeviceOther
	}
}

func estimateDevices(links []domain.Link) DeviceBreakdown {
	var total int64
	for _, l := range links {
		total += l.ClickCount
	}

	out := DeviceBreakdown{
		Categories:  make([]CategoryCount, 0, len(deviceOrder)),
		IsEstimated: true,
	}

	// Other absorbs the rounding remainder so the split sums to total.
	rest := total
	for _, cat := range deviceOrder {
		n := rest
		if share, ok := estimatedDeviceShare[cat]; ok {
			n = total * share / 100
		}

		rest -= n
		out.Categories = append(out.Categories, CategoryCount{Category: cat, Count: n})
	}

	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
