package catalog

import (
	"fmt"
	"slices"
)

// Pattern is a single design pattern the trainer can generate exercises for.
type Pattern struct {
	Name        string
	Description string
	URL         string
}

// patterns is the fixed catalog in display order. Names are unique.
var patterns = []Pattern{
	{
		Name:        "Singleton",
		Description: "Ensures a class has only one instance and provides a global point of access to it.",
		URL:         "https://refactoring.guru/design-patterns/singleton/python/example",
	},
	{
		Name:        "Factory",
		Description: "Provides an interface for creating objects in a superclass, allowing subclasses to alter the type of objects that will be created.",
		URL:         "https://refactoring.guru/design-patterns/factory-method/python/example",
	},
	{
		Name:        "Observer",
		Description: "Defines a subscription mechanism to notify multiple objects about any events that happen to the object they're observing.",
		URL:         "https://refactoring.guru/design-patterns/observer/python/example",
	},
	{
		Name:        "Decorator",
		Description: "Allows behavior to be added to an individual object, either statically or dynamically, without affecting the behavior of other objects from the same class.",
		URL:         "https://refactoring.guru/design-patterns/decorator/python/example",
	},
	{
		Name:        "Strategy",
		Description: "Defines a family of algorithms, encapsulates each one, and makes them interchangeable. Strategy lets the algorithm vary independently from clients that use it.",
		URL:         "https://refactoring.guru/design-patterns/strategy/python/example",
	},
}

// AllPatterns returns a copy of the catalog in display order.
func AllPatterns() []Pattern {
	return slices.Clone(patterns)
}

// PatternNames returns the catalog names in display order.
func PatternNames() []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Name
	}
	return names
}

// LookupPattern returns the catalog entry with the given name.
func LookupPattern(name string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Difficulty is one level of the ordered difficulty scale.
type Difficulty string

const (
	DifficultyVeryEasy  Difficulty = "Very Easy"
	DifficultyEasy      Difficulty = "Easy"
	DifficultyMedium    Difficulty = "Medium"
	DifficultyHard      Difficulty = "Hard"
	DifficultyGreyBeard Difficulty = "Grey Beard"
)

// AllDifficulties returns the difficulty levels from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{
		DifficultyVeryEasy,
		DifficultyEasy,
		DifficultyMedium,
		DifficultyHard,
		DifficultyGreyBeard,
	}
}

// Rank returns the 0-based position of d on the scale, or -1 if d is unknown.
func (d Difficulty) Rank() int {
	return slices.Index(AllDifficulties(), d)
}

// ParseDifficulty returns the Difficulty whose label is s.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if d.Rank() < 0 {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Topic is the theme an exercise is set in.
type Topic string

const (
	TopicAnimal   Topic = "Animal related"
	TopicWorkout  Topic = "Workout related"
	TopicTech     Topic = "Tech related"
	TopicBiology  Topic = "Biology related"
	TopicBusiness Topic = "Business related"
)

// AllTopics returns all topics in display order.
func AllTopics() []Topic {
	return []Topic{
		TopicAnimal,
		TopicWorkout,
		TopicTech,
		TopicBiology,
		TopicBusiness,
	}
}

// ParseTopic returns the Topic whose label is s.
func ParseTopic(s string) (Topic, error) {
	t := Topic(s)
	if !slices.Contains(AllTopics(), t) {
		return "", fmt.Errorf("unknown topic %q", s)
	}
	return t, nil
}
