package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FormatCSV        = "csv"
	FormatXLSX       = "xlsx"
	FormatLineProto  = "lp"
	FormatSQLite     = "sqlite"
	FormatInflux     = "influx"
	DefaultFormat    = FormatCSV
	DefaultOutput    = "classroom_data.csv"
	DefaultSeed      = 42
	DefaultRoom      = "classroom"
	DefaultPrecision = -1
)

// Range is a closed interval when used as clip bounds and a half-open
// interval [Min, Max) when used as a uniform draw.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// SignalSettings describes one continuous sensor channel.
type SignalSettings struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	// ClassOffset is added during class hours. Nil leaves the base signal untouched.
	ClassOffset *Range `yaml:"class_offset,omitempty"`
	// OffHours replaces the value outside class hours with a fresh draw.
	OffHours *Range `yaml:"off_hours,omitempty"`
	Bounds   Range  `yaml:"bounds"`
}

type OccupancySettings struct {
	Base        IntRange `yaml:"base"`
	ClassOffset IntRange `yaml:"class_offset"`
	OffHours    int      `yaml:"off_hours"`
	Bounds      IntRange `yaml:"bounds"`
}

// ClassHourRule marks an hour as instructional time when it falls within
// [FirstHour, LastHour] on a weekday.
type ClassHourRule struct {
	FirstHour       int  `yaml:"first_hour"`
	LastHour        int  `yaml:"last_hour"`
	IncludeWeekends bool `yaml:"include_weekends"`
}

type OutputSettings struct {
	Path           string `yaml:"path"`
	Format         string `yaml:"format"`
	FloatPrecision int    `yaml:"float_precision"`
	PreviewRows    int    `yaml:"preview_rows"`
}

type InfluxSettings struct {
	URL    string `yaml:"url,omitempty"`
	Token  string `yaml:"token,omitempty"`
	Org    string `yaml:"org,omitempty"`
	Bucket string `yaml:"bucket,omitempty"`
}

type Settings struct {
	Start      time.Time     `yaml:"start"`
	End        time.Time     `yaml:"end"`
	Interval   time.Duration `yaml:"interval"`
	Seed       uint64        `yaml:"seed"`
	Room       string        `yaml:"room"`
	ClassHours ClassHourRule `yaml:"class_hours"`

	Temperature SignalSettings    `yaml:"temperature"`
	Humidity    SignalSettings    `yaml:"humidity"`
	CO2         SignalSettings    `yaml:"co2"`
	Noise       SignalSettings    `yaml:"noise"`
	Light       SignalSettings    `yaml:"light"`
	Occupancy   OccupancySettings `yaml:"occupancy"`

	Output OutputSettings `yaml:"output"`
	Influx InfluxSettings `yaml:"influx,omitempty"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Start:    time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, time.November, 30, 23, 59, 0, 0, time.UTC),
		Interval: time.Hour,
		Seed:     DefaultSeed,
		Room:     DefaultRoom,
		ClassHours: ClassHourRule{
			FirstHour: 8,
			LastHour:  16,
		},
		Temperature: SignalSettings{
			Mean:        25,
			StdDev:      1.5,
			ClassOffset: &Range{Min: 2, Max: 4},
			Bounds:      Range{Min: 20, Max: 32},
		},
		Humidity: SignalSettings{
			Mean:   55,
			StdDev: 8,
			Bounds: Range{Min: 30, Max: 80},
		},
		CO2: SignalSettings{
			Mean:        700,
			StdDev:      150,
			ClassOffset: &Range{Min: 300, Max: 600},
			Bounds:      Range{Min: 400, Max: 2000},
		},
		Noise: SignalSettings{
			Mean:        50,
			StdDev:      10,
			ClassOffset: &Range{Min: 10, Max: 25},
			Bounds:      Range{Min: 30, Max: 85},
		},
		Light: SignalSettings{
			Mean:        350,
			StdDev:      80,
			ClassOffset: &Range{Min: 100, Max: 200},
			OffHours:    &Range{Min: 10, Max: 100},
			Bounds:      Range{Min: 0, Max: 800},
		},
		Occupancy: OccupancySettings{
			Base:        IntRange{Min: 0, Max: 5},
			ClassOffset: IntRange{Min: 25, Max: 40},
			OffHours:    0,
			Bounds:      IntRange{Min: 0, Max: 40},
		},
		Output: OutputSettings{
			Path:           DefaultOutput,
			Format:         DefaultFormat,
			FloatPrecision: DefaultPrecision,
			PreviewRows:    5,
		},
	}
}

func DefaultSettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}

// SettingsPath prefers an explicit path, then $CLASSROOM_DATAGEN_CONFIG.
// An empty result means no file was requested.
func SettingsPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	return os.Getenv("CLASSROOM_DATAGEN_CONFIG")
}

func LoadOrInitializeSettingsFromDefaultLocation() (bool, *Settings) {
	return LoadOrInitializeSettings(DefaultSettingsPath())
}

func LoadOrInitializeSettings(path string) (bool, *Settings) {
	if settings, err := LoadSettings(path); err == nil {
		return false, settings
	}

	return true, DefaultSettings()
}

// LoadSettings overlays the YAML file at path on top of DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// ApplyEnv overrides settings from the process environment. Malformed
// numbers are returned as errors rather than silently ignored.
func (s *Settings) ApplyEnv() error {
	if seed := os.Getenv("CLASSROOM_DATAGEN_SEED"); seed != "" {
		value, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return err
		}
		s.Seed = value
	}
	if output := os.Getenv("CLASSROOM_DATAGEN_OUTPUT"); output != "" {
		s.Output.Path = output
	}
	if format := os.Getenv("CLASSROOM_DATAGEN_FORMAT"); format != "" {
		s.Output.Format = format
	}

	if url := os.Getenv("INFLUXDB_URL"); url != "" {
		s.Influx.URL = url
	}
	if token := os.Getenv("INFLUXDB_TOKEN"); token != "" {
		s.Influx.Token = token
	}
	if org := os.Getenv("INFLUXDB_ORG"); org != "" {
		s.Influx.Org = org
	}
	if bucket := os.Getenv("INFLUXDB_BUCKET"); bucket != "" {
		s.Influx.Bucket = bucket
	}

	return nil
}

func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := s.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
