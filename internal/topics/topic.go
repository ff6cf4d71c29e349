// Package topics holds the ordered weekly topic list and the places it can
// come from: explicit input, the database, a topics file, or the defaults.
package topics

import "strings"

type Topic struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Clean trims every topic and drops the ones without a title. Order is kept.
func Clean(list []Topic) []Topic {
	out := make([]Topic, 0, len(list))
	for _, t := range list {
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		if t.Title == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Titles returns the topic titles in order.
func Titles(list []Topic) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

var defaultTopics = []Topic{
	{Title: "Python Data Types and Variables", Description: "Lists, Tuples, Sets, Dictionaries"},
	{Title: "Control Flow in Python", Description: "Conditional statements (if-else), loops (for, while)"},
	{Title: "Functions in Python", Description: "Defining and calling functions, arguments, return values"},
	{Title: "File Handling in Python", Description: "Reading and writing files (open(), read(), write())"},
	{Title: "Exception Handling", Description: "try, except, finally"},
	{Title: "Higher-Order Functions", Description: "map(), filter(), reduce()"},
	{Title: "Object-Oriented Programming (OOP)", Description: "OOP concepts"},
}

// Defaults returns a copy of the built-in course topics.
func Defaults() []Topic {
	out := make([]Topic, len(defaultTopics))
	copy(out, defaultTopics)
	return out
}
