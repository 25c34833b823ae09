package overlay

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-docx/internal/types"
)

// profileFile is the shape of the profile concern. Lists and the contact
// block stay as nodes so their kind can be checked before decoding.
type profileFile struct {
	Name          string        `yaml:"name"`
	Headline      string        `yaml:"headline"`
	Summary       types.Summary `yaml:"summary"`
	Email         string        `yaml:"email"`
	Phone         string        `yaml:"phone"`
	Location      string        `yaml:"location"`
	Website       string        `yaml:"website"`
	LinkedIn      string        `yaml:"linkedin"`
	GitHub        string        `yaml:"github"`
	Contact       yaml.Node     `yaml:"contact"`
	Interests     yaml.Node     `yaml:"interests"`
	Presentations yaml.Node     `yaml:"presentations"`
}

// applyProfile overwrites scalar fields with non-empty overlay values. Nested
// contact values only fill fields still empty on the record; contact.links
// and top-level interests/presentations lists replace outright.
func applyProfile(out *types.Candidate, node *yaml.Node) (bool, error) {
	if isNull(node) {
		return false, nil
	}
	if node.Kind != yaml.MappingNode {
		return false, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	var pf profileFile
	if err := node.Decode(&pf); err != nil {
		return false, err
	}

	// Decode every nested value before touching out so a malformed file
	// leaves the record as it was.
	var contact *types.Contact
	if pf.Contact.Kind == yaml.MappingNode {
		contact = &types.Contact{}
		if err := pf.Contact.Decode(contact); err != nil {
			return false, fmt.Errorf("contact: %w", err)
		}
	}
	interests, hasInterests, err := decodeList(&pf.Interests)
	if err != nil {
		return false, fmt.Errorf("interests: %w", err)
	}
	presentations, hasPresentations, err := decodeList(&pf.Presentations)
	if err != nil {
		return false, fmt.Errorf("presentations: %w", err)
	}

	applied := false
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
			applied = true
		}
	}
	set(&out.Name, pf.Name)
	set(&out.Headline, pf.Headline)
	set(&out.Email, pf.Email)
	set(&out.Phone, pf.Phone)
	set(&out.Location, pf.Location)
	set(&out.Website, pf.Website)
	set(&out.LinkedIn, pf.LinkedIn)
	set(&out.GitHub, pf.GitHub)
	if !pf.Summary.IsEmpty() {
		out.Summary = pf.Summary
		applied = true
	}

	if contact != nil {
		fill := func(dst *string, v string) {
			if strings.TrimSpace(*dst) == "" {
				set(dst, v)
			}
		}
		fill(&out.Email, contact.Email)
		fill(&out.Phone, contact.Phone)
		fill(&out.Location, contact.Location)
		fill(&out.Website, contact.Website)
		fill(&out.LinkedIn, contact.LinkedIn)
		fill(&out.GitHub, contact.GitHub)
		if contact.Links != nil {
			out.Links = contact.Links
			applied = true
		}
	}
	if hasInterests {
		out.Interests = interests
		applied = true
	}
	if hasPresentations {
		out.Presentations = presentations
		applied = true
	}
	return applied, nil
}

// decodeList decodes n when it is a sequence. The bool reports whether n was
// a sequence at all, so an explicit empty list still counts.
func decodeList(n *yaml.Node) ([]types.Item, bool, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, false, nil
	}
	var items []types.Item
	if err := n.Decode(&items); err != nil {
		return nil, false, err
	}
	if items == nil {
		items = []types.Item{}
	}
	return items, true, nil
}

// applySkillsGroups replaces skills_groups with a non-empty `groups` list.
func applySkillsGroups(out *types.Candidate, node *yaml.Node) (bool, error) {
	if isNull(node) {
		return false, nil
	}
	var f struct {
		Groups []types.SkillGroup `yaml:"groups"`
	}
	if err := node.Decode(&f); err != nil {
		return false, err
	}
	if len(f.Groups) == 0 {
		return false, nil
	}
	out.SkillsGroups = f.Groups
	return true, nil
}

// applyExperience replaces experience with a non-empty `experience` list,
// or failing that a non-empty `roles` list.
func applyExperience(out *types.Candidate, node *yaml.Node) (bool, error) {
	if isNull(node) {
		return false, nil
	}
	var f struct {
		Experience []types.Role `yaml:"experience"`
		Roles      []types.Role `yaml:"roles"`
	}
	if err := node.Decode(&f); err != nil {
		return false, err
	}
	roles := f.Experience
	if len(roles) == 0 {
		roles = f.Roles
	}
	if len(roles) == 0 {
		return false, nil
	}
	out.Experience = roles
	return true, nil
}

// applyList replaces a simple list section with the file's list, given
// either directly or under a key of the same name.
func applyList(out *types.Candidate, key string, node *yaml.Node) (bool, error) {
	var items []types.Item
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&items); err != nil {
			return false, err
		}
	case yaml.MappingNode:
		var wrapped map[string]yaml.Node
		if err := node.Decode(&wrapped); err != nil {
			return false, err
		}
		inner, ok := wrapped[key]
		if !ok || inner.Kind != yaml.SequenceNode {
			return false, nil
		}
		if err := inner.Decode(&items); err != nil {
			return false, err
		}
	default:
		if isNull(node) {
			return false, nil
		}
		return false, fmt.Errorf("line %d: expected a list or a mapping", node.Line)
	}
	if len(items) == 0 {
		return false, nil
	}
	return out.SetListFor(key, items), nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
