// internal/app/system/viz/commands.go
package viz

import (
	"encoding/json"
	"fmt"
)

// Command is one typed widget operation. UI adapters translate raw
// events (select change, checkbox click, arrow key) into commands and
// hand them to Controller.Apply.
type Command interface{ isCommand() }

// SetTargetVariable switches the forecasted quantity being viewed.
type SetTargetVariable struct{ Value string }

// SetUnit switches the geographic or organizational unit.
type SetUnit struct{ Value string }

// SetInterval switches the displayed prediction interval width.
type SetInterval struct{ Value string }

// Truth series identifiers for ToggleTruth.
const (
	TruthCurrent = "current"
	TruthAsOf    = "as_of"
)

// ToggleTruth shows or hides one of the two truth lines.
type ToggleTruth struct {
	Series  string
	Checked bool
}

// ToggleModel checks or unchecks one model in the roster.
type ToggleModel struct {
	Model   string
	Checked bool
}

// ToggleAllModels selects every selectable model (snapshotting the
// manual selection first) or restores that snapshot.
type ToggleAllModels struct{ Checked bool }

// StepAsOf pages the as-of reference date one step. Direction is +1
// (newer) or -1 (older).
type StepAsOf struct{ Direction int }

// ShuffleColors permutes the model color assignment.
type ShuffleColors struct{}

// Refresh rebuilds the snapshot from in-memory state without fetching.
type Refresh struct{}

func (SetTargetVariable) isCommand() {}
func (SetUnit) isCommand()           {}
func (SetInterval) isCommand()       {}
func (ToggleTruth) isCommand()       {}
func (ToggleModel) isCommand()       {}
func (ToggleAllModels) isCommand()   {}
func (StepAsOf) isCommand()          {}
func (ShuffleColors) isCommand()     {}
func (Refresh) isCommand()           {}

type commandEnvelope struct {
	Type      string `json:"type"`
	Value     string `json:"value,omitempty"`
	Checked   bool   `json:"checked,omitempty"`
	Series    string `json:"series,omitempty"`
	Model     string `json:"model,omitempty"`
	Direction int    `json:"direction,omitempty"`
}

// DecodeCommand parses the wire envelope posted by the page client
// into a typed command.
func DecodeCommand(data []byte) (Command, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	switch env.Type {
	case "set_target_variable":
		return SetTargetVariable{Value: env.Value}, nil
	case "set_unit":
		return SetUnit{Value: env.Value}, nil
	case "set_interval":
		return SetInterval{Value: env.Value}, nil
	case "toggle_truth":
		return ToggleTruth{Series: env.Series, Checked: env.Checked}, nil
	case "toggle_model":
		return ToggleModel{Model: env.Model, Checked: env.Checked}, nil
	case "toggle_all_models":
		return ToggleAllModels{Checked: env.Checked}, nil
	case "step_as_of":
		return StepAsOf{Direction: env.Direction}, nil
	case "shuffle_colors":
		return ShuffleColors{}, nil
	case "refresh":
		return Refresh{}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
}
