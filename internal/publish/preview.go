package publish

// The mobile preview "device" shows a deterministic boot log: five boarding
// lines, then filler lines repeated until the log reaches bootLogLength, at
// which point the device is ready. The client paces the animation.

const bootLogLength = 14

var bootLines = []string{
	"Mounting virtualized hardware...",
	"System: iOS 17.2 Simulation active",
	"Fetching source from Manus Neural API...",
	"Resolving dependencies...",
	"Build: Optimizing bytecode for ARM64",
}

var bootFillerLines = []string{
	"JIT Runtime connected",
	"Hot Restarting UI thread",
	"Bridge initialized",
	"Rendering Frame...",
}

// BootLog returns the full scripted preview boot sequence.
func BootLog() []string {
	out := append([]string(nil), bootLines...)
	for i := 0; len(out) < bootLogLength; i++ {
		out = append(out, bootFillerLines[i%len(bootFillerLines)])
	}
	return out
}
