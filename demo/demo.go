// Package demo replays scripted input into an interactive board so a
// session can be recorded without a human typing.
package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"
)

// Command represents a single demo command
type Command struct {
	Type     string `json:"type"`            // "text", "key", "click", "pause"
	Value    string `json:"value,omitempty"` // the text to type or the key name
	X        int    `json:"x,omitempty"`     // click position in cells
	Y        int    `json:"y,omitempty"`
	Delay    int    `json:"delay,omitempty"`    // delay after the command in milliseconds
	Variance int    `json:"variance,omitempty"` // random variance in ms (±variance)
}

// Script represents a demo script
type Script struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Commands     []Command `json:"commands"`
	BaseDelay    int       `json:"base_delay"`    // default delay between commands
	BaseVariance int       `json:"base_variance"` // default variance
	TypingDelay  int       `json:"typing_delay"`  // delay between typed characters
}

// Sink receives the input a script produces.
type Sink interface {
	Rune(r rune)
	Key(name string) error
	Click(x, y int)
}

var (
	ErrNoScript       = errors.New("no script loaded")
	ErrAlreadyPlaying = errors.New("already playing")
)

// Player plays back demo scripts
type Player struct {
	script *Script
	sink   Sink
	sleep  func(time.Duration)
	rand   *rand.Rand

	mu        sync.Mutex
	stop      chan struct{}
	done      chan struct{}
	isPlaying bool
}

// NewPlayer creates a player sending input to sink.
func NewPlayer(sink Sink) *Player {
	return &Player{
		sink:  sink,
		sleep: time.Sleep,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadScript loads a demo script from a file
func (p *Player) LoadScript(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read demo script: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return err
	}
	p.script = script
	return nil
}

// SetScript uses an already parsed script.
func (p *Player) SetScript(s *Script) {
	p.script = withDefaults(s)
}

// ParseScript decodes a JSON script and fills in default timings.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}
	return withDefaults(&script), nil
}

func withDefaults(s *Script) *Script {
	if s.BaseDelay == 0 {
		s.BaseDelay = 300 // 300ms default
	}
	if s.BaseVariance == 0 {
		s.BaseVariance = 100 // ±100ms default
	}
	if s.TypingDelay == 0 {
		s.TypingDelay = 60
	}
	return s
}

// TextScript types every line of text at the given position, committing
// each with Enter. Lines are placed four rows apart.
func TextScript(lines []string, x, y int) *Script {
	s := &Script{Name: "typed input"}
	for i, line := range lines {
		s.Commands = append(s.Commands,
			Command{Type: "click", X: x, Y: y + 4*i},
			Command{Type: "text", Value: line},
			Command{Type: "key", Value: "enter"},
		)
	}
	s.Commands = append(s.Commands, Command{Type: "pause", Delay: 2000})
	return withDefaults(s)
}

// Play starts playing the loaded script in the background.
func (p *Player) Play() error {
	if p.script == nil {
		return ErrNoScript
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isPlaying {
		return ErrAlreadyPlaying
	}

	p.isPlaying = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.playScript(p.stop, p.done)
	return nil
}

// Stop stops the current playback and waits for it to finish.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.isPlaying {
		p.mu.Unlock()
		return
	}
	close(p.stop)
	done := p.done
	p.mu.Unlock()
	<-done
}

// Wait blocks until playback ends.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// IsPlaying returns whether a demo is currently playing
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying
}

// playScript executes the script commands
func (p *Player) playScript(stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		p.mu.Lock()
		p.isPlaying = false
		p.mu.Unlock()
		close(done)
	}()

	for _, cmd := range p.script.Commands {
		select {
		case <-stop:
			return
		default:
		}

		switch cmd.Type {
		case "text":
			for _, ch := range cmd.Value {
				p.sink.Rune(ch)
				p.sleep(time.Duration(p.jitter(p.script.TypingDelay, p.script.TypingDelay/2)) * time.Millisecond)
			}
		case "key":
			if err := p.sink.Key(cmd.Value); err != nil {
				return
			}
		case "click":
			p.sink.Click(cmd.X, cmd.Y)
		case "pause":
			// Just pause, no action
		default:
			// Unknown command type, skip
		}

		p.sleep(time.Duration(p.delay(cmd)) * time.Millisecond)
	}
}

func (p *Player) delay(cmd Command) int {
	delay := cmd.Delay
	if delay == 0 {
		delay = p.script.BaseDelay
	}
	variance := cmd.Variance
	if variance == 0 {
		variance = p.script.BaseVariance
	}
	return max(50, p.jitter(delay, variance))
}

func (p *Player) jitter(base, variance int) int {
	if variance <= 0 {
		return base
	}
	return base + p.rand.Intn(variance*2) - variance
}

// GenerateExample creates an example demo script
func GenerateExample() string {
	script := Script{
		Name:         "Quadratic",
		Description:  "Writes a quadratic and its roots",
		BaseDelay:    400,
		BaseVariance: 150,
		TypingDelay:  80,
		Commands: []Command{
			{Type: "click", X: 4, Y: 2, Delay: 800},
			{Type: "text", Value: "y=ax^2 +bx+c"},
			{Type: "key", Value: "enter"},

			{Type: "click", X: 4, Y: 6, Delay: 600},
			{Type: "text", Value: "x=(-b+(b^2 -4ac)^(1/2))/2a"},
			{Type: "key", Value: "enter"},

			{Type: "key", Value: "tab"},
			{Type: "click", X: 4, Y: 11},
			{Type: "text", Value: "the positive root"},
			{Type: "key", Value: "enter"},

			{Type: "pause", Delay: 2000}, // Pause to show result
		},
	}

	data, _ := json.MarshalIndent(script, "", "  ")
	return string(data)
}
