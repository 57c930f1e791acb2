package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Phrase is one lexicon entry: a lowercase phrase (possibly multi-word)
// and the non-negative weight it contributes when present.
type Phrase struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// Category groups related phrases. Category and phrase order determine
// the order matches are reported in, not the score.
type Category struct {
	Name    string   `json:"name"`
	Phrases []Phrase `json:"phrases"`
}

// Lexicon is the full phrase catalog. It is treated as immutable after
// construction; the classifier never mutates it.
type Lexicon []Category

// ParseLexicon decodes a JSON lexicon document, e.g. a locale variant
// stored in an SSM parameter. The expected shape is an array of
// categories, each with a name and a list of {text, weight} phrases.
func ParseLexicon(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("risk: decode lexicon: %w", err)
	}
	if err := lex.validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

func (l Lexicon) validate() error {
	if len(l) == 0 {
		return errors.New("risk: lexicon has no categories")
	}
	for _, cat := range l {
		if strings.TrimSpace(cat.Name) == "" {
			return errors.New("risk: lexicon category missing name")
		}
		for _, p := range cat.Phrases {
			if strings.TrimSpace(p.Text) == "" {
				return fmt.Errorf("risk: category %q has an empty phrase", cat.Name)
			}
			if p.Weight < 0 {
				return fmt.Errorf("risk: phrase %q has negative weight", p.Text)
			}
		}
	}
	return nil
}

// DefaultLexicon returns the built-in English lexicon. Operators can
// replace it with a parsed variant at startup; it is never modified in
// place.
func DefaultLexicon() Lexicon {
	return Lexicon{
		{Name: "threat", Phrases: []Phrase{
			{Text: "kill you", Weight: 4.0},
			{Text: "kill me", Weight: 4.0},
			{Text: "i'll kill you", Weight: 4.0},
			{Text: "going to die", Weight: 3.5},
			{Text: "hurt you", Weight: 3.0},
			{Text: "hurt me", Weight: 3.0},
			{Text: "hit you", Weight: 3.0},
			{Text: "beat you", Weight: 3.0},
			{Text: "hit me", Weight: 3.0},
			{Text: "beat me", Weight: 3.0},
			{Text: "assault", Weight: 3.0},
			{Text: "rape", Weight: 4.0},
			{Text: "punch", Weight: 2.5},
			{Text: "donner you", Weight: 3.0},
		}},
		{Name: "insult", Phrases: []Phrase{
			{Text: "stupid", Weight: 1.5},
			{Text: "useless", Weight: 2.0},
			{Text: "worthless", Weight: 2.5},
			{Text: "idiot", Weight: 1.5},
			{Text: "bitch", Weight: 2.0},
			{Text: "slut", Weight: 2.5},
			{Text: "whore", Weight: 2.5},
			{Text: "ugly", Weight: 1.5},
			{Text: "fat", Weight: 1.5},
			{Text: "disgusting", Weight: 2.0},
			{Text: "pathetic", Weight: 2.0},
			{Text: "dumb", Weight: 1.5},
			{Text: "crazy", Weight: 1.5},
			{Text: "psycho", Weight: 2.0},
			{Text: "domkop", Weight: 2.0},
			{Text: "poes", Weight: 3.5},
		}},
		{Name: "fear", Phrases: []Phrase{
			{Text: "scared", Weight: 2.0},
			{Text: "afraid", Weight: 2.0},
			{Text: "terrified", Weight: 3.0},
			{Text: "nervous", Weight: 1.0},
			{Text: "help me", Weight: 3.5},
			{Text: "trapped", Weight: 3.0},
			{Text: "danger", Weight: 2.5},
			{Text: "he follows me", Weight: 3.0},
			{Text: "follows me", Weight: 3.0},
			{Text: "i'm hiding", Weight: 2.5},
			{Text: "don't leave me", Weight: 2.0},
		}},
		{Name: "control", Phrases: []Phrase{
			{Text: "where are you", Weight: 1.5},
			{Text: "who are you with", Weight: 1.5},
			{Text: "send pic", Weight: 1.0},
			{Text: "you can't go", Weight: 2.5},
			{Text: "don't wear that", Weight: 2.0},
			{Text: "you're not allowed", Weight: 2.5},
			{Text: "answer me", Weight: 1.5},
			{Text: "i own you", Weight: 3.0},
			{Text: "you belong to me", Weight: 3.0},
			{Text: "stay home", Weight: 1.5},
		}},
		{Name: "gaslighting", Phrases: []Phrase{
			{Text: "you're overreacting", Weight: 1.5},
			{Text: "it's your fault", Weight: 2.0},
			{Text: "you made me do it", Weight: 2.5},
			{Text: "that never happened", Weight: 1.5},
			{Text: "you're imagining things", Weight: 1.5},
			{Text: "stop being so sensitive", Weight: 1.5},
			{Text: "it was just a joke", Weight: 1.0},
		}},
	}
}
