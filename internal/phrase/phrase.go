package phrase

import (
	"strings"

	"github.com/hpungsan/quip/internal/errors"
)

// Phrase is a piece of text that replaces its trigger when fired.
type Phrase struct {
	node

	Description string

	// Prompt asks the caller to confirm before sending the expansion.
	Prompt bool
	// OmitTrigger drops the trigger character instead of re-typing it after
	// the expansion.
	OmitTrigger bool
	// MatchCase applies the case of the typed abbreviation to the expansion.
	MatchCase bool

	body string
}

// NewPhrase returns a phrase with no active modes. The body may contain at
// most one cursor marker.
func NewPhrase(description, body string) (*Phrase, error) {
	p := &Phrase{node: newNode(), Description: description}
	if err := p.SetBody(body); err != nil {
		return nil, err
	}
	return p, nil
}

// Body returns the expansion text, cursor marker included.
func (p *Phrase) Body() string {
	return p.body
}

// SetBody replaces the expansion text.
func (p *Phrase) SetBody(body string) error {
	if strings.Count(body, CursorMarker) > 1 {
		return errors.NewInvalidRequest("phrase body may contain at most one " + CursorMarker + " cursor marker").
			WithDetail("description", p.Description)
	}
	p.body = body
	return nil
}

func (p *Phrase) Name() string   { return p.Description }
func (p *Phrase) Kind() Kind     { return KindPhrase }
func (p *Phrase) String() string { return p.Description }

func (p *Phrase) DisplayTuple() DisplayTuple {
	return DisplayTuple{Kind: KindPhrase, Name: p.Description, Abbreviation: p.Abbreviation.Text}
}

// CheckInput reports whether the phrase fires for buffer, either through its
// abbreviation or predictively, in a window the phrase accepts.
func (p *Phrase) CheckInput(buffer, windowTitle string, predictiveLength int) bool {
	if !p.window.Matches(windowTitle) {
		return false
	}
	if p.abbreviationFires(buffer) {
		return true
	}
	return p.predictiveFires(buffer, predictiveLength)
}

func (p *Phrase) predictiveFires(buffer string, predictiveLength int) bool {
	return p.Modes.Has(ModePredictive) && ShouldTriggerPredictive(buffer, p.body, predictiveLength)
}
