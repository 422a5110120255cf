// Package roster loads agent personas. A persona is an opaque role
// description: a markdown file with YAML frontmatter naming the role and
// the conversational act it speaks with, followed by the prompt body.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/threadloom/braid/internal/braid"
)

// Persona is one loaded agent description.
type Persona struct {
	// From frontmatter
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`     // analyst|strategist|validator|synthesizer|coordinator
	SpeaksAs    string `yaml:"speaks-as"` // message type this persona's turns carry
	Description string `yaml:"description"`
	Order       int    `yaml:"order,omitempty"` // position in the run sequence

	// From content
	Prompt string `yaml:"-"`

	// Location
	Path string `yaml:"-"`
}

// BraidRole maps the persona's role tag onto the braid vocabulary.
func (p *Persona) BraidRole() braid.Role {
	switch p.Role {
	case "coordinator":
		return braid.RoleCoordinator
	case "analyst":
		return braid.RoleAnalyst
	case "strategist":
		return braid.RoleStrategist
	case "validator":
		return braid.RoleValidator
	case "synthesizer":
		return braid.RoleSynthesizer
	}
	return braid.RoleAnalyst
}

// MessageType maps the persona's speaks-as tag onto the braid vocabulary.
func (p *Persona) MessageType() braid.MessageType {
	switch p.SpeaksAs {
	case "task_assignment":
		return braid.TypeTaskAssignment
	case "challenge":
		return braid.TypeChallenge
	case "validation":
		return braid.TypeValidation
	case "synthesis":
		return braid.TypeSynthesis
	case "final_output":
		return braid.TypeFinalOutput
	}
	return braid.TypeAnalysisResult
}

// Load loads a persona from a markdown file.
func Load(path string) (*Persona, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona: %w", err)
	}

	persona, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	persona.Path = path
	return persona, nil
}

// Parse parses a persona file's content.
func Parse(content string) (*Persona, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	persona := &Persona{}
	if err := yaml.Unmarshal([]byte(frontmatter), persona); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	if persona.Name == "" {
		return nil, fmt.Errorf("missing required field: name")
	}
	if persona.Role == "" {
		return nil, fmt.Errorf("missing required field: role")
	}

	persona.Prompt = strings.TrimSpace(body)
	return persona, nil
}

// splitFrontmatter extracts YAML frontmatter from markdown.
func splitFrontmatter(content string) (frontmatter, body string, err error) {
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("missing frontmatter delimiter")
	}

	var fmLines []string
	var bodyStart int
	inFrontmatter := true

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			inFrontmatter = false
			bodyStart = i + 1
			break
		}
		if inFrontmatter {
			fmLines = append(fmLines, lines[i])
		}
	}

	if inFrontmatter {
		return "", "", fmt.Errorf("unclosed frontmatter")
	}

	frontmatter = strings.Join(fmLines, "\n")
	if bodyStart < len(lines) {
		body = strings.Join(lines[bodyStart:], "\n")
	}

	return frontmatter, body, nil
}

// Discover loads every persona in a directory, ordered by the `order`
// field and then by name. A missing directory yields an empty roster.
func Discover(dir string) ([]*Persona, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var personas []*Persona
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		persona, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid personas
		}
		personas = append(personas, persona)
	}

	sort.Slice(personas, func(i, j int) bool {
		if personas[i].Order != personas[j].Order {
			return personas[i].Order < personas[j].Order
		}
		return personas[i].Name < personas[j].Name
	})
	return personas, nil
}
