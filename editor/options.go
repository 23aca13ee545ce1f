package editor

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Options tunes one engine. Distances are in screen pixels unless noted.
type Options struct {
	GridSize          float64 `yaml:"grid_size" validate:"gt=0"`
	SnapToGrid        bool    `yaml:"snap_to_grid"`
	SnapWhileDragging bool    `yaml:"snap_while_dragging"`

	MinScale float64 `yaml:"min_scale" validate:"gt=0,ltfield=MaxScale"`
	MaxScale float64 `yaml:"max_scale" validate:"gt=0"`

	// MinNodeWidth and MinNodeHeight are world units.
	MinNodeWidth  float64 `yaml:"min_node_width" validate:"gt=0"`
	MinNodeHeight float64 `yaml:"min_node_height" validate:"gt=0"`

	// DefaultNodeWidth and DefaultNodeHeight size a shape placed with a click.
	DefaultNodeWidth  float64 `yaml:"default_node_width" validate:"gtefield=MinNodeWidth"`
	DefaultNodeHeight float64 `yaml:"default_node_height" validate:"gtefield=MinNodeHeight"`

	HistoryCapacity int `yaml:"history_capacity" validate:"gte=0"`

	HandleTolerance float64 `yaml:"handle_tolerance" validate:"gt=0"`
	ConnectorOffset float64 `yaml:"connector_offset" validate:"gte=0"`
	DragThreshold   float64 `yaml:"drag_threshold" validate:"gte=0"`
	EdgeTolerance   float64 `yaml:"edge_tolerance" validate:"gt=0"`
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		GridSize:          20,
		SnapToGrid:        true,
		MinScale:          0.1,
		MaxScale:          8,
		MinNodeWidth:      10,
		MinNodeHeight:     10,
		DefaultNodeWidth:  120,
		DefaultNodeHeight: 60,
		HistoryCapacity:   200,
		HandleTolerance:   8,
		ConnectorOffset:   16,
		DragThreshold:     3,
		EdgeTolerance:     6,
	}
}

var validate = validator.New()

// Validate checks every field constraint.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid editor options: %w", err)
	}
	return nil
}
