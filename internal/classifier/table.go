package classifier

import "github.com/setevik/crashlens/internal/event"

// builtinSignals is the static signal reference table. It is constructed
// once at package init and never mutated; Table copies from it.
var builtinSignals = map[int]event.SignalInfo{
	4: {
		Number:      4,
		Name:        "SIGILL",
		Description: "Illegal instruction",
		CommonCauses: []string{
			"Corrupted binary or shared library",
			"CPU instruction set mismatch (e.g. AVX on older hardware)",
			"JIT compiler emitting bad code",
		},
		Severity: event.SevCritical,
	},
	5: {
		Number:      5,
		Name:        "SIGTRAP",
		Description: "Trace/breakpoint trap",
		CommonCauses: []string{
			"Debugger breakpoint left in release build",
			"Assertion trap in native code",
		},
		Severity: event.SevMedium,
	},
	6: {
		Number:      6,
		Name:        "SIGABRT",
		Description: "Abort signal (assertion failure or fatal runtime error)",
		CommonCauses: []string{
			"Failed assertion in native code",
			"Heap corruption detected by the allocator",
			"Uncaught C++ exception",
			"Out-of-memory abort inside the process",
		},
		Severity: event.SevHigh,
	},
	7: {
		Number:      7,
		Name:        "SIGBUS",
		Description: "Bus error (bad memory access alignment or mapping)",
		CommonCauses: []string{
			"Truncated memory-mapped file",
			"Hardware memory fault",
			"Misaligned access on strict-alignment hardware",
		},
		Severity: event.SevCritical,
	},
	8: {
		Number:      8,
		Name:        "SIGFPE",
		Description: "Arithmetic exception",
		CommonCauses: []string{
			"Integer division by zero",
			"Integer overflow trap",
		},
		Severity: event.SevHigh,
	},
	9: {
		Number:      9,
		Name:        "SIGKILL",
		Description: "Forced kill (not catchable by the process)",
		CommonCauses: []string{
			"Kernel OOM killer",
			"Manual kill -9",
			"Systemd unit stop timeout",
		},
		Severity: event.SevHigh,
	},
	11: {
		Number:      11,
		Name:        "SIGSEGV",
		Description: "Segmentation fault (invalid memory access)",
		CommonCauses: []string{
			"Null or dangling pointer dereference",
			"Stack overflow",
			"GPU driver or graphics stack fault",
			"Memory corruption from a native module or extension",
		},
		Severity: event.SevCritical,
	},
	15: {
		Number:      15,
		Name:        "SIGTERM",
		Description: "Termination request",
		CommonCauses: []string{
			"Session or service shutdown",
			"Process manager restart",
		},
		Severity: event.SevLow,
	},
}

// builtinRecommendations maps a signal number to its canned remediation
// list. Order within each list is preserved into the report.
var builtinRecommendations = map[int][]string{
	4: {
		"Verify the application binary integrity (reinstall the package)",
		"Check for CPU feature mismatches between build and host",
		"Run memtest to rule out faulty RAM",
	},
	6: {
		"Check application logs for assertion messages preceding the abort",
		"Disable recently installed extensions or native modules",
		"Increase available memory or reduce workspace size",
	},
	7: {
		"Check disk health and filesystem integrity (fsck, SMART)",
		"Run memtest to rule out faulty RAM",
	},
	8: {
		"Report the arithmetic fault upstream with the failing input",
	},
	9: {
		"Check kernel logs for OOM killer activity around the crash time",
		"Close memory-heavy applications or add swap space",
	},
	11: {
		"Update GPU drivers and mesa/graphics libraries",
		"Disable GPU acceleration to isolate graphics faults",
		"Disable recently installed extensions or native modules",
		"Run memtest to rule out faulty RAM",
	},
	15: {
		"Check session and service manager logs for shutdown causes",
	},
}

// frequencyRecommendations are appended when more than three crashes appear
// in one analysis window.
var frequencyRecommendations = []string{
	"Crashes are frequent: capture a coredump for offline debugging",
	"Start the application with a clean profile to rule out local state",
	"Monitor memory pressure while reproducing the crash",
}
