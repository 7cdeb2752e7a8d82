package clamd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	foundSuffix = " FOUND"
	errorSuffix = " ERROR"

	// Database date layout, e.g. "Mon Jan 20 12:41:43 2020". The day of
	// month is space-padded by the daemon.
	dbDateLayout = "Mon Jan _2 15:04:05 2006"
)

// versionRegexp matches "ClamAV <version>" optionally followed by
// "/<db version>/<db date>" when the daemon has a definition database
// loaded.
var versionRegexp = regexp.MustCompile(`^ClamAV ([^/]+)(?:/(\d+)/(.+))?$`)

// splitReply breaks a raw reply into logical lines on the command's
// terminator, dropping padding and empty segments. Order is preserved as
// the daemon emitted it.
func splitReply(raw []byte, term byte) []string {
	var lines []string
	for _, seg := range strings.Split(string(raw), string(term)) {
		seg = strings.Trim(seg, " \t\r\n\x00")
		if seg != "" {
			lines = append(lines, seg)
		}
	}
	return lines
}

// parseScanReply parses a full scan reply into one ScanResult per logical
// line, in daemon emission order. Any line outside the scan grammar fails
// the whole reply with a parse error.
func parseScanReply(raw []byte, term byte) ([]*ScanResult, error) {
	lines := splitReply(raw, term)
	if len(lines) == 0 {
		return nil, NewParseError("empty reply from clamd", nil)
	}
	results := make([]*ScanResult, 0, len(lines))
	for _, line := range lines {
		r, err := parseScanLine(line)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// parseScanLine parses one reply line of the scan grammar:
//
//	<path>: OK
//	<path>: <signature> FOUND
//	<path>: <message> ERROR
func parseScanLine(line string) (*ScanResult, error) {
	idx := strings.Index(line, ": ")
	if idx < 0 {
		return nil, NewParseError(fmt.Sprintf("malformed reply line: %q", line), nil)
	}
	path, rest := line[:idx], line[idx+2:]

	switch {
	case rest == string(StatusOK):
		return &ScanResult{Path: path, Status: StatusOK, Raw: line}, nil
	case strings.HasSuffix(rest, foundSuffix):
		sig := strings.TrimSpace(strings.TrimSuffix(rest, foundSuffix))
		if sig == "" {
			return nil, NewParseError(fmt.Sprintf("reply line has empty signature name: %q", line), nil)
		}
		return &ScanResult{Path: path, Status: StatusFound, Signature: sig, Raw: line}, nil
	case strings.HasSuffix(rest, errorSuffix):
		msg := strings.TrimSpace(strings.TrimSuffix(rest, errorSuffix))
		return &ScanResult{Path: path, Status: StatusError, Message: msg, Raw: line}, nil
	default:
		return nil, NewParseError(fmt.Sprintf("malformed reply line: %q", line), nil)
	}
}

// parseVersion parses a VERSION reply line such as
// "ClamAV 0.102.1/25701/Mon Jan 20 12:41:43 2020". The database segment is
// optional; a daemon without a loaded database reports only
// "ClamAV <version>".
func parseVersion(line string) (*VersionInfo, error) {
	m := versionRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, NewParseError(fmt.Sprintf("unexpected VERSION reply: %q", line), nil)
	}

	info := &VersionInfo{Version: m[1], Raw: line}
	if m[2] == "" {
		return info, nil
	}

	db, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return nil, NewParseError(fmt.Sprintf("unexpected database version in VERSION reply: %q", line), err)
	}
	date, err := time.ParseInLocation(dbDateLayout, m[3], time.UTC)
	if err != nil {
		return nil, NewParseError(fmt.Sprintf("unexpected database date in VERSION reply: %q", line), err)
	}

	info.Database = db
	info.DatabaseDate = date
	return info, nil
}

// parseStats extracts the known sections of a STATS reply. Unknown lines
// are ignored rather than rejected since the layout shifts between daemon
// versions; Raw always carries the full text.
func parseStats(raw string) *Stats {
	st := &Stats{Raw: raw}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, " \t\r\x00")
		switch {
		case strings.HasPrefix(line, "POOLS: "):
			st.Pools = strings.TrimPrefix(line, "POOLS: ")
		case strings.HasPrefix(line, "STATE: "):
			st.State = strings.TrimPrefix(line, "STATE: ")
		case strings.HasPrefix(line, "THREADS: "):
			st.Threads = strings.TrimPrefix(line, "THREADS: ")
		case strings.HasPrefix(line, "QUEUE: "):
			st.Queue = strings.TrimPrefix(line, "QUEUE: ")
		case strings.HasPrefix(line, "MEMSTATS: "):
			st.MemStats = strings.TrimPrefix(line, "MEMSTATS: ")
		}
	}
	return st
}
