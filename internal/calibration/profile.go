package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultProfileFileName is the profile file created in the home directory.
const DefaultProfileFileName = ".factcalc_calibration.json"

// CurrentProfileVersion is bumped whenever the profile layout or the meaning
// of a stored cutoff changes. Profiles of another version are ignored.
const CurrentProfileVersion = 1

// DefaultMaxAge is how long a profile is trusted before it is considered
// stale.
const DefaultMaxAge = 30 * 24 * time.Hour

// CalibrationProfile stores the outcome of a calibration run along with the
// hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	OptimalCutoff       uint64 `json:"optimal_cutoff"`
	OptimalFFTThreshold int    `json:"optimal_fft_threshold"`

	CalibrationN    uint64 `json:"calibration_n"`
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns a profile describing the current machine, with no
// measurements yet.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// IsValid reports whether p was measured on hardware matching this process.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether p is older than maxAge. A nil profile is stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Calibration profile (v%d)\n", p.ProfileVersion)
	fmt.Fprintf(&b, "  Calibrated: %s\n", p.CalibratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "  Hardware:   %d CPUs, %s/%s, %d-bit, %s\n", p.NumCPU, p.GOOS, p.GOARCH, p.WordSize, p.GoVersion)
	fmt.Fprintf(&b, "  Cutoff:     %d factors\n", p.OptimalCutoff)
	fmt.Fprintf(&b, "  FFT:        %d bits\n", p.OptimalFFTThreshold)
	if p.CalibrationN > 0 {
		fmt.Fprintf(&b, "  Measured:   %d! in %s\n", p.CalibrationN, p.CalibrationTime)
	}
	return b.String()
}

// SaveProfile writes p as indented JSON to path, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When the file is missing,
// unreadable or describes other hardware, a fresh profile is returned and
// loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns the profile path in the user's home
// directory, falling back to the working directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns path, or the default path when it is empty.
func ResolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// LoadCachedCutoff returns the cutoff stored in the profile at path, or zero
// when there is no valid, fresh profile.
func LoadCachedCutoff(path string) uint64 {
	p, loaded := LoadOrCreateProfile(ResolveProfilePath(path))
	if !loaded || p.IsStale(DefaultMaxAge) {
		return 0
	}
	return p.OptimalCutoff
}
