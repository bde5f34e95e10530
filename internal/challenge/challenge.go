// Package challenge defines the CTF puzzle catalog. Challenges are
// static data: loaded once, never mutated at runtime. Catalog order is
// significant; "next challenge" lookups walk it sequentially.
package challenge

import (
	"fmt"
	"regexp"
)

// Difficulty grades a challenge.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

// Unlocks describes extra rewards granted when a challenge is solved.
type Unlocks struct {
	Commands []string `yaml:"commands"`
	Message  string   `yaml:"message"`
}

// Challenge is one puzzle. Flag is the exact-match secret that solves
// it.
type Challenge struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Points      int        `yaml:"points"`
	Description string     `yaml:"description"`
	Content     string     `yaml:"content"`
	Hint        string     `yaml:"hint"`
	Flag        string     `yaml:"flag"`
	Reward      string     `yaml:"reward"`
	Unlocks     Unlocks    `yaml:"unlocks"`
}

// Validate checks a single challenge definition.
func (c Challenge) Validate() error {
	if !idPattern.MatchString(c.ID) {
		return fmt.Errorf("invalid challenge id %q", c.ID)
	}
	if c.Title == "" {
		return fmt.Errorf("challenge %s: title is required", c.ID)
	}
	switch c.Difficulty {
	case Easy, Medium, Hard, Expert:
	default:
		return fmt.Errorf("challenge %s: invalid difficulty %q", c.ID, c.Difficulty)
	}
	if c.Points <= 0 {
		return fmt.Errorf("challenge %s: points must be > 0", c.ID)
	}
	if c.Flag == "" {
		return fmt.Errorf("challenge %s: flag is required", c.ID)
	}
	return nil
}

// Catalog is an ordered, immutable challenge collection.
type Catalog struct {
	ordered []Challenge
	byID    map[string]int
}

// NewCatalog builds a catalog, rejecting duplicate or invalid entries.
func NewCatalog(challenges []Challenge) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(challenges))}
	for _, ch := range challenges {
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byID[ch.ID]; ok {
			return nil, fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		c.byID[ch.ID] = len(c.ordered)
		c.ordered = append(c.ordered, ch)
	}
	return c, nil
}

// Get returns the challenge with the given id.
func (c *Catalog) Get(id string) (Challenge, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Challenge{}, false
	}
	return c.ordered[i], true
}

// Ordered returns the challenges in catalog order.
func (c *Catalog) Ordered() []Challenge {
	out := make([]Challenge, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of challenges.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// NextUnsolved returns the first challenge in catalog order whose id is
// not in solved.
func (c *Catalog) NextUnsolved(solved map[string]bool) (Challenge, bool) {
	for _, ch := range c.ordered {
		if !solved[ch.ID] {
			return ch, true
		}
	}
	return Challenge{}, false
}
