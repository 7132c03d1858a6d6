package boundary

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// ErrUnknownAction is returned when a policy names an action that does not exist
var ErrUnknownAction = errors.New("unknown boundary action")

// Action is what an accepted span contributes to the final boundaries
type Action int

const (
	ActionNone     Action = iota // Annotation only
	ActionEnd                    // Break at span end
	ActionStart                  // Break at span start
	ActionBoth                   // Break at start and end
	ActionSuppress               // Remove breaks b with start < b <= end
)

func (a Action) String() string {
	switch a {
	case ActionEnd:
		return "end"
	case ActionStart:
		return "start"
	case ActionBoth:
		return "both"
	case ActionSuppress:
		return "suppress"
	default:
		return "none"
	}
}

// ParseAction parses an action name
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ActionNone, nil
	case "end":
		return ActionEnd, nil
	case "start":
		return ActionStart, nil
	case "both":
		return ActionBoth, nil
	case "suppress":
		return ActionSuppress, nil
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// MarshalYAML writes the action name
func (a Action) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML reads an action name
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseAction(value.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Policy maps accepted spans to boundary contributions
type Policy struct {
	Terminal []string       `yaml:"terminal,omitempty"` // Contributing layers; empty means all
	ByType   map[int]Action `yaml:"by_type"`            // Keyed by split type
	Untyped  Action         `yaml:"untyped"`            // Spans without a split type
	Fallback Action         `yaml:"fallback"`           // Split types missing from ByType
}

// DefaultPolicy returns the table matching the built-in rules
func DefaultPolicy() Policy {
	return Policy{
		ByType: map[int]Action{
			model.SplitPunctuation:     ActionEnd,
			model.SplitLinebreak:       ActionEnd,
			model.SplitEmotion:         ActionEnd,
			model.SplitEmojiTerminal:   ActionEnd,
			model.SplitEmoji:           ActionNone,
			model.SplitFaceMark:        ActionSuppress,
			model.SplitIndirectQuote:   ActionSuppress,
			model.SplitDotException:    ActionSuppress,
			model.SplitNumberException: ActionSuppress,
			model.SplitToken:           ActionNone,
		},
		Untyped:  ActionEnd,
		Fallback: ActionNone,
	}
}

// Action returns the action for one span
func (p Policy) Action(s model.Span) Action {
	t, ok := s.SplitType.Get()
	if !ok {
		return p.Untyped
	}
	if a, ok := p.ByType[t]; ok {
		return a
	}
	return p.Fallback
}

// ParsePolicy reads a policy from YAML
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if p.ByType == nil {
		p.ByType = map[int]Action{}
	}
	return p, nil
}

// LoadPolicy reads a policy file
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(data)
}

// MarshalPolicy writes a policy in the format ParsePolicy reads
func MarshalPolicy(p Policy) ([]byte, error) {
	return yaml.Marshal(p)
}
