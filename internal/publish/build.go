package publish

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Platform is the simulated build target.
type Platform string

const (
	PlatformAndroid Platform = "Android"
	PlatformIOS     Platform = "iOS"
)

// AndroidFormat selects the Android distribution artifact.
type AndroidFormat string

const (
	FormatAPK AndroidFormat = "APK"
	FormatAAB AndroidFormat = "AAB"
)

// BuildStatus is the build lifecycle. A build moves idle -> preparing ->
// compiling -> signing -> completed, status derived from how far through the
// script it is.
type BuildStatus string

const (
	StatusIdle      BuildStatus = "idle"
	StatusPreparing BuildStatus = "preparing"
	StatusCompiling BuildStatus = "compiling"
	StatusSigning   BuildStatus = "signing"
	StatusCompleted BuildStatus = "completed"
	StatusFailed    BuildStatus = "failed"
)

// BuildSpec is the user-chosen build configuration.
type BuildSpec struct {
	Platform    Platform
	Format      AndroidFormat
	AppName     string
	VersionName string
	VersionCode string
}

// normalize fills defaults matching the client's preset form values.
func (s *BuildSpec) normalize() error {
	switch s.Platform {
	case PlatformAndroid, PlatformIOS:
	default:
		return fmt.Errorf("unknown platform %q", s.Platform)
	}
	if s.Platform == PlatformAndroid {
		switch s.Format {
		case FormatAPK, FormatAAB:
		case "":
			s.Format = FormatAPK
		default:
			return fmt.Errorf("unknown android format %q", s.Format)
		}
	} else {
		s.Format = ""
	}
	if s.AppName == "" {
		s.AppName = "ManusApp"
	}
	if s.VersionName == "" {
		s.VersionName = "1.0.0"
	}
	if s.VersionCode == "" {
		s.VersionCode = "1"
	}
	return nil
}

// buildScript returns the [BUILD] step lines for the requested platform
// and output format.
func buildScript(spec BuildSpec) []string {
	if spec.Platform == PlatformIOS {
		return []string{
			"Starting xcodebuild...",
			fmt.Sprintf("Configuring build v%s (%s)...", spec.VersionName, spec.VersionCode),
			"Resolving Swift packages...",
			"Compiling Swift sources...",
			"Linking object files...",
			"Processing Info.plist...",
			"Signing identity verification...",
			"Packaging .ipa bundle...",
		}
	}
	shrink := "Shrinking resources with R8..."
	pack := "Generating .apk package..."
	if spec.Format == FormatAAB {
		shrink = "Optimizing resources for App Bundle..."
		pack = "Generating .aab package..."
	}
	return []string{
		"Initializing Gradle daemon...",
		fmt.Sprintf("Configuring build v%s (%s)...", spec.VersionName, spec.VersionCode),
		"Resolving dependencies for :app...",
		"Compiling Java/Kotlin sources...",
		"Generating DEX files...",
		shrink,
		pack,
		"Signing package with production key...",
		"Aligning binary for store submission...",
	}
}

// Build is one simulated pipeline run.
type Build struct {
	ID       string
	Owner    string
	Spec     BuildSpec
	Status   BuildStatus
	Progress int
	Logs     []string

	steps []string
	step  int
}

// artifactName is the download filename: lowercased hyphenated app name
// plus version and extension.
func (b *Build) artifactName() string {
	ext := "apk"
	if b.Spec.Platform == PlatformIOS {
		ext = "ipa"
	} else if b.Spec.Format == FormatAAB {
		ext = "aab"
	}
	name := strings.ToLower(strings.Join(strings.Fields(b.Spec.AppName), "-"))
	return fmt.Sprintf("%s-v%s.%s", name, b.Spec.VersionName, ext)
}

// advance emits the next script line and recomputes progress and status.
// Returns false once the build is terminal.
func (b *Build) advance() bool {
	if b.Status == StatusCompleted || b.Status == StatusFailed {
		return false
	}
	if b.step < len(b.steps) {
		b.step++
		b.Logs = append(b.Logs, "[BUILD] "+b.steps[b.step-1])
		b.Progress = b.step * 100 / len(b.steps)
		switch {
		case b.Progress < 30:
			b.Status = StatusPreparing
		case b.Progress < 90:
			b.Status = StatusCompiling
		default:
			b.Status = StatusSigning
		}
		return true
	}

	artifact := string(b.Spec.Format)
	if b.Spec.Platform == PlatformIOS {
		artifact = "IPA"
	}
	b.Logs = append(b.Logs, fmt.Sprintf("[SUCCESS] %s %s generated successfully.", b.Spec.Platform, artifact))
	b.Status = StatusCompleted
	b.Progress = 100
	return false
}

// Service owns every running build. Interval is the delay between script
// lines; zero disables the internal clock so tests drive builds with
// Advance.
type Service struct {
	interval time.Duration

	mu     sync.Mutex
	builds map[string]*Build
}

func NewService(interval time.Duration) *Service {
	return &Service{interval: interval, builds: make(map[string]*Build)}
}

// Start registers a build and, when the service has a clock, begins
// advancing it one line per interval.
func (s *Service) Start(owner string, spec BuildSpec) (*Build, error) {
	if err := spec.normalize(); err != nil {
		return nil, err
	}

	b := &Build{
		ID:     uuid.NewString(),
		Owner:  owner,
		Spec:   spec,
		Status: StatusPreparing,
		Logs:   []string{"[SYSTEM] Build pipeline initiated..."},
		steps:  buildScript(spec),
	}

	s.mu.Lock()
	s.builds[b.ID] = b
	s.mu.Unlock()

	if s.interval > 0 {
		go s.run(b.ID)
	}
	return snapshot(b), nil
}

func (s *Service) run(id string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for range ticker.C {
		if !s.Advance(id) {
			return
		}
	}
}

// Advance emits one script line for the build. Returns false when the build
// is unknown or terminal.
func (s *Service) Advance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builds[id]
	if !ok {
		return false
	}
	return b.advance()
}

// Get returns a snapshot of the build for its owner.
func (s *Service) Get(owner, id string) (*Build, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builds[id]
	if !ok || b.Owner != owner {
		return nil, false
	}
	return snapshot(b), true
}

// Download returns the artifact filename and placeholder bytes. Only a
// completed build has an artifact.
func (s *Service) Download(owner, id string) (string, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builds[id]
	if !ok || b.Owner != owner || b.Status != StatusCompleted {
		return "", nil, false
	}
	payload := fmt.Sprintf("MANUS-SIMULATED-ARTIFACT %s %s v%s (%s)\n",
		b.ID, b.Spec.AppName, b.Spec.VersionName, b.Spec.Platform)
	return b.artifactName(), []byte(payload), true
}

// snapshot copies a build so callers never see concurrent log appends.
func snapshot(b *Build) *Build {
	out := *b
	out.Logs = append([]string(nil), b.Logs...)
	out.steps = nil
	return &out
}
