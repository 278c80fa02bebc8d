// Package config loads simulator settings from a JSON file. Every field is
// optional; the Get* methods supply defaults for anything left out.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/1siamBot/towsim/engine/control"
	"github.com/1siamBot/towsim/engine/geometry"
	"github.com/1siamBot/towsim/engine/vehicle"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root configuration.
type Config struct {
	// Vehicle geometry
	Car     *vehicle.Geometry `json:"car,omitempty"`
	Trailer *vehicle.Geometry `json:"trailer,omitempty"` // geometry used by the hitch command

	// Number of trailers hitched before the first tick
	InitialTrailers *int `json:"initial_trailers,omitempty"`

	// Control limits
	SteerRate *float64 `json:"steer_rate,omitempty"` // rad/s
	MaxSpeed  *float64 `json:"max_speed,omitempty"`  // units/s
	MaxSteer  *float64 `json:"max_steer,omitempty"`  // rad

	// Initial pose
	InitialX     *float64 `json:"initial_x,omitempty"`
	InitialY     *float64 `json:"initial_y,omitempty"`
	InitialTheta *float64 `json:"initial_theta,omitempty"`

	// Loop and display
	TickRate      *float64 `json:"tick_rate,omitempty"`       // fixed ticks per second, 0 = one tick per frame
	PixelsPerUnit *float64 `json:"pixels_per_unit,omitempty"` // renderer scale
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	car := vehicle.DefaultCarGeometry()
	trailer := vehicle.DefaultTrailerGeometry()
	lim := control.DefaultLimits()
	return &Config{
		Car:             &car,
		Trailer:         &trailer,
		InitialTrailers: ptrInt(0),
		SteerRate:       ptrFloat64(lim.SteerRate),
		MaxSpeed:        ptrFloat64(lim.MaxSpeed),
		MaxSteer:        ptrFloat64(lim.MaxSteer),
		InitialX:        ptrFloat64(0),
		InitialY:        ptrFloat64(0),
		InitialTheta:    ptrFloat64(math.Pi / 2),
		TickRate:        ptrFloat64(0),
		PixelsPerUnit:   ptrFloat64(40),
	}
}

// Load reads a Config from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file keep their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	car := c.GetCar()
	if err := car.Validate(); err != nil {
		return fmt.Errorf("car: %w", err)
	}
	if err := c.GetTrailer().Validate(); err != nil {
		return fmt.Errorf("trailer: %w", err)
	}

	if c.InitialTrailers != nil && *c.InitialTrailers < 0 {
		return fmt.Errorf("initial_trailers must be non-negative, got %d", *c.InitialTrailers)
	}
	if err := c.GetLimits().Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if c.TickRate != nil && !(*c.TickRate >= 0) {
		return fmt.Errorf("tick_rate must be non-negative, got %f", *c.TickRate)
	}
	if c.PixelsPerUnit != nil && !(*c.PixelsPerUnit > 0) {
		return fmt.Errorf("pixels_per_unit must be positive, got %f", *c.PixelsPerUnit)
	}

	// The whole steering range must keep the inner wheel's turn centre outside the axle.
	if err := geometry.CheckSteeringLimits(car.Wheelbase, car.Gauge, c.GetMaxSteer()); err != nil {
		return err
	}

	return nil
}

// GetCar returns the car geometry or the default.
func (c *Config) GetCar() vehicle.Geometry {
	if c.Car == nil {
		return vehicle.DefaultCarGeometry()
	}
	return *c.Car
}

// GetTrailer returns the trailer geometry or the default.
func (c *Config) GetTrailer() vehicle.Geometry {
	if c.Trailer == nil {
		return vehicle.DefaultTrailerGeometry()
	}
	return *c.Trailer
}

// GetInitialTrailers returns the initial_trailers value or the default.
func (c *Config) GetInitialTrailers() int {
	if c.InitialTrailers == nil {
		return 0
	}
	return *c.InitialTrailers
}

// GetMaxSteer returns the max_steer value or the default.
func (c *Config) GetMaxSteer() float64 {
	if c.MaxSteer == nil {
		return vehicle.MaxSteer
	}
	return *c.MaxSteer
}

// GetLimits assembles the control limits.
func (c *Config) GetLimits() control.Limits {
	lim := control.DefaultLimits()
	if c.SteerRate != nil {
		lim.SteerRate = *c.SteerRate
	}
	if c.MaxSpeed != nil {
		lim.MaxSpeed = *c.MaxSpeed
	}
	lim.MaxSteer = c.GetMaxSteer()
	return lim
}

// GetInitialState returns the starting car pose, at rest with straight wheels.
func (c *Config) GetInitialState() vehicle.CarState {
	st := vehicle.CarState{Theta: math.Pi / 2}
	if c.InitialX != nil {
		st.X = *c.InitialX
	}
	if c.InitialY != nil {
		st.Y = *c.InitialY
	}
	if c.InitialTheta != nil {
		st.Theta = *c.InitialTheta
	}
	return st
}

// GetTickRate returns the tick_rate value or the default.
func (c *Config) GetTickRate() float64 {
	if c.TickRate == nil {
		return 0
	}
	return *c.TickRate
}

// GetPixelsPerUnit returns the pixels_per_unit value or the default.
func (c *Config) GetPixelsPerUnit() float64 {
	if c.PixelsPerUnit == nil {
		return 40
	}
	return *c.PixelsPerUnit
}
