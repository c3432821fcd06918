package classifier

import "regexp"

// Heuristic pattern names. These are best-effort indicators matched over the
// whole input text, independent of signal-based classification.
const (
	PatternMemoryExhaustion = "memory_exhaustion"
	PatternSegfault         = "segfault"
	PatternGPUDriverCrash   = "gpu_driver_crash"
	PatternExtensionCrash   = "extension_crash"
	PatternRendererCrash    = "renderer_crash"
	PatternTimeout          = "timeout"
)

// heuristicPatterns is an ordered list of independent case-insensitive
// checks. Several may match the same text; matching is not exclusive.
var heuristicPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{PatternMemoryExhaustion, regexp.MustCompile(`(?i)out of memory|oom[-_]?kill|cannot allocate memory|memory exhaust|anon-rss:\d{7,}`)},
	{PatternSegfault, regexp.MustCompile(`(?i)segfault|segmentation fault|sigsegv|sig=11\b`)},
	{PatternGPUDriverCrash, regexp.MustCompile(`(?i)\bNVRM\b|amdgpu|i915|\[drm\]|GPU (hang|fault|reset)|gpu[- ]process`)},
	{PatternExtensionCrash, regexp.MustCompile(`(?i)extension[- ]?host|extensionhost|\bexthost\b`)},
	{PatternRendererCrash, regexp.MustCompile(`(?i)renderer process|ptype=renderer|renderer crash`)},
	{PatternTimeout, regexp.MustCompile(`(?i)timed? ?out|not responding|watchdog.*(expired|timeout)|hang detected`)},
}

// rootCauses is evaluated top to bottom; the first matching pattern supplies
// the explanation. The ordering is a deliberate priority, not a ranking by
// evidence strength.
var rootCauses = []struct {
	pattern     string
	explanation string
}{
	{PatternMemoryExhaustion, "Memory exhaustion: the system ran out of memory and processes were killed or aborted"},
	{PatternSegfault, "Invalid memory access: a process dereferenced bad memory, likely a native-code or library bug"},
	{PatternGPUDriverCrash, "GPU driver fault: the graphics driver or GPU process failed"},
	{PatternExtensionCrash, "Extension crash: an extension host process brought the application down"},
	{PatternTimeout, "Unresponsive process: a hang or watchdog timeout preceded the termination"},
}

// unknownRootCause is used when no heuristic category matched.
const unknownRootCause = "Undetermined: no heuristic pattern matched the log text"

// memoryBiasRootCause replaces the unknown cause when current memory usage
// exceeds the bias threshold.
const memoryBiasRootCause = "Suspected memory exhaustion: no log pattern matched, but current memory usage is high"
