package messaging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CommandType names a timer command on the wire
type CommandType string

const (
	CommandStart  CommandType = "pomodoroStart"
	CommandPause  CommandType = "pomodoroPause"
	CommandResume CommandType = "pomodoroResume"
	CommandStop   CommandType = "pomodoroStop"
)

// Command is a fire-and-forget timer request, e.g.
// {"type":"pomodoroStart","templateId":"classic"}
type Command struct {
	Type       CommandType `json:"type"`
	TemplateID string      `json:"templateId,omitempty"`
}

// Start returns a pomodoroStart command for templateID
func Start(templateID string) Command {
	return Command{Type: CommandStart, TemplateID: templateID}
}

// Pause returns a pomodoroPause command
func Pause() Command { return Command{Type: CommandPause} }

// Resume returns a pomodoroResume command
func Resume() Command { return Command{Type: CommandResume} }

// Stop returns a pomodoroStop command
func Stop() Command { return Command{Type: CommandStop} }

// Validate checks the type and that pomodoroStart carries a template id
func (c Command) Validate() error {
	switch c.Type {
	case CommandStart:
		if strings.TrimSpace(c.TemplateID) == "" {
			return fmt.Errorf("%s requires templateId", c.Type)
		}
		return nil
	case CommandPause, CommandResume, CommandStop:
		return nil
	default:
		return fmt.Errorf("unknown command type %q", c.Type)
	}
}

// Encode validates and marshals c
func (c Command) Encode() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}

// Decode unmarshals and validates a command
func Decode(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("invalid command payload: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}
