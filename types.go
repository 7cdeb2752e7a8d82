package clamd

import "time"

// ScanStatus is the outcome class of a single scanned unit, as reported by
// the daemon.
type ScanStatus string

// The three reply shapes the daemon produces per scanned unit.
const (
	StatusOK    ScanStatus = "OK"
	StatusFound ScanStatus = "FOUND"
	StatusError ScanStatus = "ERROR"
)

// ScanResult represents the result of scanning one unit (a file, or the
// whole stream for streaming scans). Exactly one of Signature and Message
// is populated, depending on Status.
type ScanResult struct {
	// Path is the scanned location as reported by the daemon. For
	// streaming scans the daemon reports it as "stream".
	Path string
	// Status is StatusOK (clean), StatusFound (infected), or StatusError
	// (the daemon failed to scan this unit, e.g. permission denied).
	Status ScanStatus
	// Signature is the name of the matched malware definition when Status
	// is StatusFound.
	Signature string
	// Message is the daemon's error description when Status is StatusError.
	Message string
	// Raw is the unmodified reply line this result was parsed from.
	Raw string
}

// IsInfected returns true if the scan found a virus.
func (r *ScanResult) IsInfected() bool {
	return r.Status == StatusFound
}

// IsClean returns true if the file is clean.
func (r *ScanResult) IsClean() bool {
	return r.Status == StatusOK
}

// IsError returns true if the daemon reported a scan error for this unit.
// This is a daemon-side outcome carried as data, not a client failure.
func (r *ScanResult) IsError() bool {
	return r.Status == StatusError
}

// VersionInfo contains the daemon version as reported by the VERSION
// command.
type VersionInfo struct {
	// Version is the daemon version string, e.g. "0.103.8".
	Version string
	// Database is the virus definition database version. Zero when the
	// daemon reported no database info.
	Database uint64
	// DatabaseDate is the build time of the virus definition database.
	// Zero when the daemon reported no database info.
	DatabaseDate time.Time
	// Raw is the unmodified version line from the daemon.
	Raw string
}

// Stats contains daemon runtime statistics as reported by the STATS
// command. Field values are kept as the daemon's raw strings since their
// layout varies between daemon versions; Raw holds the full reply.
type Stats struct {
	Pools    string
	State    string
	Threads  string
	Queue    string
	MemStats string
	Raw      string
}

// EICAR is the standard antivirus test file content. Any correctly
// configured daemon reports it as infected.
var EICAR = []byte(`X5O!P%@AP[4\PZX54(P^)7CC)7}$EICAR-STANDARD-ANTIVIRUS-TEST-FILE!$H+H*`)
