package crawl

import (
	"fmt"
)

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 60

// FormatProgress renders a progress event as one line for terminal output.
func FormatProgress(ev ProgressEvent) string {
	url := TruncateURL(ev.URL, progressURLWidth)
	switch ev.Type {
	case ProgressFetched:
		return fmt.Sprintf("ok    d=%d %-*s %s (%d indexed)", ev.Depth, progressURLWidth, url, FormatBytes(ev.Bytes), ev.Indexed)
	case ProgressFailed:
		return fmt.Sprintf("fail  d=%d %-*s %v", ev.Depth, progressURLWidth, url, ev.Error)
	default:
		return fmt.Sprintf("skip  d=%d %s", ev.Depth, url)
	}
}

// FormatStats renders scheduler statistics on one line.
func FormatStats(s Stats) string {
	return fmt.Sprintf("fetched %d, failed %d, skipped %d (depth) %d (robots), discovered %d",
		s.Fetched, s.Failed, s.SkippedDepth, s.SkippedRobots, s.Discovered)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
