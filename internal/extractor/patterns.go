package extractor

import "regexp"

// abendMarkerRe identifies audit records for abnormal process termination.
// journalctl prints the symbolic record type; the kernel ring buffer (dmesg)
// prints the numeric form, type=1701. Example journal line:
//
//	Jun  3 10:00:00 host audit[812]: ANOM_ABEND auid=1000 uid=1000 gid=1000
//	  ses=2 pid=1234 comm="code" exe="/usr/share/code/code" sig=11 res=1
//
// Example dmesg line:
//
//	2026-06-03T10:00:00,123456+02:00 audit: type=1701 audit(1717408800.123:456):
//	  auid=1000 uid=1000 pid=1234 comm="code" sig=11 res=1
var abendMarkerRe = regexp.MustCompile(`\bANOM_ABEND\b|\btype=1701\b`)

// Field extractors. Audit fields appear in arbitrary order within a record,
// so each is matched independently.
var pidFieldRe = regexp.MustCompile(`\bpid=(\d+)`)
var sigFieldRe = regexp.MustCompile(`\bsig=(\d+)`)
var commQuotedRe = regexp.MustCompile(`\bcomm="([^"]+)"`)
var commBareRe = regexp.MustCompile(`\bcomm=([^\s"]+)`)

// auditEpochRe matches the auditd serial header, e.g. "audit(1717408800.123:456):".
var auditEpochRe = regexp.MustCompile(`audit\((\d+)\.(\d{1,3}):\d+\)`)

// isoTimestampRe matches ISO-8601 and "YYYY-MM-DD HH:MM:SS" prefixes. dmesg
// writes the fractional seconds with a comma (10:00:00,123456+02:00).
var isoTimestampRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:\d{2})?)`)

// syslogTimestampRe matches the year-less syslog prefix, e.g. "Jun  3 10:00:00".
var syslogTimestampRe = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2} \d{2}:\d{2}:\d{2})`)
