package headless

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/killallgit/scrollback/pkg/scroll"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownStep is returned for a step that sets no action or several
	ErrUnknownStep = errors.New("unknown step")
	// ErrExpectation is returned when an expect step does not hold
	ErrExpectation = errors.New("expectation failed")
)

// Scenario is a scripted session against one scroll.List
type Scenario struct {
	Name         string `yaml:"name"`
	Conversation string `yaml:"conversation"`
	// Messages is the number of messages loaded before the first step
	Messages int `yaml:"messages"`
	// Visible is the viewport height used by scroll steps that omit it
	Visible float64 `yaml:"visible"`
	HasMore bool    `yaml:"has_more"`
	// Echo answers every scroll command with a programmatic event at the
	// bottom, the way a real viewport reports its own movement
	Echo       bool                `yaml:"echo"`
	Thresholds *ThresholdOverrides `yaml:"thresholds,omitempty"`
	Steps      []Step              `yaml:"steps"`
}

type ThresholdOverrides struct {
	BottomEpsilon      float64       `yaml:"bottom_epsilon"`
	TopThreshold       float64       `yaml:"top_threshold"`
	UserScrollCooldown time.Duration `yaml:"user_scroll_cooldown"`
	ProgrammaticGrace  time.Duration `yaml:"programmatic_grace"`
}

// Step is one action; exactly one field is set
type Step struct {
	Scroll  *ScrollStep   `yaml:"scroll,omitempty"`
	Append  *AppendStep   `yaml:"append,omitempty"`
	Jump    bool          `yaml:"jump,omitempty"`
	Wait    time.Duration `yaml:"wait,omitempty"`
	Switch  string        `yaml:"switch,omitempty"`
	Resolve *ResolveStep  `yaml:"resolve,omitempty"`
	Expect  *Expect       `yaml:"expect,omitempty"`
}

type ScrollStep struct {
	Offset  float64 `yaml:"offset"`
	Content float64 `yaml:"content"`
	Visible float64 `yaml:"visible,omitempty"`
	Source  string  `yaml:"source,omitempty"` // user (default), programmatic, unknown
	Resize  bool    `yaml:"resize,omitempty"`
}

type AppendStep struct {
	Count  int   `yaml:"count"`
	FromMe *bool `yaml:"from_me,omitempty"`
}

// ResolveStep completes the oldest outstanding history load
type ResolveStep struct {
	Error   string `yaml:"error,omitempty"`
	Prepend int    `yaml:"prepend,omitempty"`
	HasMore *bool  `yaml:"has_more,omitempty"`
}

// Expect checks list state; unset fields are not checked
type Expect struct {
	Mode           string   `yaml:"mode,omitempty"`
	UserScrolling  *bool    `yaml:"user_scrolling,omitempty"`
	ShowJump       *bool    `yaml:"show_jump,omitempty"`
	NewBelow       *int     `yaml:"new_below,omitempty"`
	Loading        *bool    `yaml:"loading,omitempty"`
	Loads          *int     `yaml:"loads,omitempty"`
	Commands       []string `yaml:"commands,omitempty"`
	PendingTimers  *int     `yaml:"pending_timers,omitempty"`
	AnnotatedCount *int     `yaml:"messages,omitempty"`
}

// LoadScenario reads a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario, rejecting unknown keys
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if s.Conversation == "" {
		s.Conversation = "scenario"
	}
	if s.Visible <= 0 {
		s.Visible = 500
	}
	for i, step := range s.Steps {
		if step.actions() != 1 {
			return nil, fmt.Errorf("step %d: %w", i+1, ErrUnknownStep)
		}
	}
	return &s, nil
}

func (s *Scenario) thresholds() scroll.Thresholds {
	t := scroll.DefaultThresholds()
	if s.Thresholds == nil {
		return t
	}
	if s.Thresholds.BottomEpsilon > 0 {
		t.BottomEpsilon = s.Thresholds.BottomEpsilon
	}
	if s.Thresholds.TopThreshold > 0 {
		t.TopThreshold = s.Thresholds.TopThreshold
	}
	if s.Thresholds.UserScrollCooldown > 0 {
		t.UserScrollCooldown = s.Thresholds.UserScrollCooldown
	}
	if s.Thresholds.ProgrammaticGrace > 0 {
		t.ProgrammaticGrace = s.Thresholds.ProgrammaticGrace
	}
	return t
}

func (st Step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Scroll != nil,
		st.Append != nil,
		st.Jump,
		st.Wait > 0,
		st.Switch != "",
		st.Resolve != nil,
		st.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func parseSource(s string) (scroll.Source, error) {
	switch s {
	case "", "user":
		return scroll.SourceUser, nil
	case "programmatic":
		return scroll.SourceProgrammatic, nil
	case "unknown":
		return scroll.SourceUnknown, nil
	default:
		return 0, fmt.Errorf("unknown scroll source %q", s)
	}
}
