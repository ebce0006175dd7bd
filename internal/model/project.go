package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project.
// Transitions are monotonic: active -> archived -> deleted.
type ProjectStatus string

const (
	StatusActive   ProjectStatus = "active"
	StatusArchived ProjectStatus = "archived"
	StatusDeleted  ProjectStatus = "deleted"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// rank orders statuses along the one-way lifecycle.
func (s ProjectStatus) rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusArchived:
		return 1
	case StatusDeleted:
		return 2
	}
	return -1
}

// CanTransition reports whether moving from s to next is a legal
// forward transition.
func (s ProjectStatus) CanTransition(next ProjectStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() > s.rank()
}

// Priority is the importance level of a feature.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// FeatureStatus is the workflow state of a feature.
type FeatureStatus string

const (
	FeaturePlanned    FeatureStatus = "planned"
	FeatureInProgress FeatureStatus = "in_progress"
	FeatureCompleted  FeatureStatus = "completed"
	FeatureCancelled  FeatureStatus = "cancelled"
)

// Valid reports whether s is a known feature status.
func (s FeatureStatus) Valid() bool {
	switch s {
	case FeaturePlanned, FeatureInProgress, FeatureCompleted, FeatureCancelled:
		return true
	}
	return false
}

// Feature is a unit of planned work owned by a project.
type Feature struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Priority    Priority      `yaml:"priority"`
	Status      FeatureStatus `yaml:"status"`
}

// Deliverable is a concrete output expected from a phase.
type Deliverable struct {
	Name      string `yaml:"name"`
	Completed bool   `yaml:"completed"`
}

// Phase is a time-boxed stage of a project.
type Phase struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description,omitempty"`
	StartDate    *time.Time    `yaml:"start_date,omitempty"`
	EndDate      *time.Time    `yaml:"end_date,omitempty"`
	Deliverables []Deliverable `yaml:"deliverables,omitempty"`
}

// Project is the root entity all documents are generated from.
// Deleted projects are soft-deleted: they stay on disk so documents
// generated from them remain inspectable.
type Project struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	CreatedAt   time.Time      `yaml:"created_at"`
	UpdatedAt   time.Time      `yaml:"updated_at"`
	Status      ProjectStatus  `yaml:"status"`
	Features    []Feature      `yaml:"features"`
	Phases      []Phase        `yaml:"phases"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
}

// NewProject creates an active project with a fresh ID and timestamps.
func NewProject(name, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      StatusActive,
		Features:    []Feature{},
		Phases:      []Phase{},
	}
}

// Touch bumps the update timestamp. Every field edit goes through this.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC()
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
}

// Transition moves the project to the next lifecycle status.
// Reverse transitions are rejected.
func (p *Project) Transition(next ProjectStatus) error {
	if !p.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s", p.Status, next)
	}
	p.Status = next
	p.Touch()
	return nil
}

// NameLimits for project names.
const (
	NameMinLen        = 1
	NameMaxLen        = 100
	DescriptionMaxLen = 500
)

// ValidName reports whether name satisfies the project naming rules:
// 1-100 characters, starting and ending with an alphanumeric character.
func ValidName(name string) bool {
	runes := []rune(name)
	if len(runes) < NameMinLen || len(runes) > NameMaxLen {
		return false
	}
	return isAlnum(runes[0]) && isAlnum(runes[len(runes)-1])
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
