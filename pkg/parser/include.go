package parser

import (
	"strings"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// rewriteAlias returns a copy of prog with every label definition and
// intra-file reference qualified under alias. Jump-like targets rewrite
// unconditionally unless they carry the :: root escape, which is stripped.
// Entity names (characters, sprites, speakers) rewrite only when the bare
// name is defined inside prog, so outside references like "narrator" pass
// through untouched.
func rewriteAlias(prog *script.Program, alias string) *script.Program {
	defined := make(map[string]bool)
	for _, cmd := range prog.Commands {
		switch c := cmd.(type) {
		case script.CharacterDef:
			defined[c.Ident] = true
		case script.Show:
			defined[c.Name] = true
		case script.ShowChar:
			defined[c.Ident] = true
		}
	}

	target := func(t string) string {
		if t == "" {
			return t
		}
		if strings.HasPrefix(t, "::") {
			return t[2:]
		}
		return alias + "." + t
	}
	entity := func(n string) string {
		if strings.HasPrefix(n, "::") {
			return n[2:]
		}
		if defined[n] {
			return alias + "." + n
		}
		return n
	}

	out := make([]script.Command, len(prog.Commands))
	for i, cmd := range prog.Commands {
		switch c := cmd.(type) {
		case script.Label:
			c.Name = alias + "." + c.Name
			out[i] = c
		case script.Jump:
			c.Target = target(c.Target)
			out[i] = c
		case script.IfJump:
			c.Target = target(c.Target)
			out[i] = c
		case script.Choice:
			opts := make([]script.ChoiceOption, len(c.Options))
			for j, o := range c.Options {
				o.Target = target(o.Target)
				opts[j] = o
			}
			c.Options = opts
			out[i] = c
		case script.Map:
			if c.Action == "poi" {
				c.Target = target(c.Target)
			}
			out[i] = c
		case script.HotspotAdd:
			c.Target = target(c.Target)
			out[i] = c
		case script.HotspotPoly:
			c.Target = target(c.Target)
			out[i] = c
		case script.HudAdd:
			c.Target = target(c.Target)
			out[i] = c
		case script.CharacterDef:
			c.Ident = alias + "." + c.Ident
			out[i] = c
		case script.Say:
			c.Speaker = entity(c.Speaker)
			out[i] = c
		case script.Show:
			c.Name = entity(c.Name)
			out[i] = c
		case script.ShowChar:
			c.Ident = entity(c.Ident)
			out[i] = c
		case script.Hide:
			c.Name = entity(c.Name)
			out[i] = c
		case script.Animate:
			c.Name = entity(c.Name)
			out[i] = c
		default:
			out[i] = cmd
		}
	}

	return &script.Program{
		Commands: out,
		Labels:   BuildLabelTable(out),
		Manifest: prog.Manifest,
	}
}

// Aliased pairs a parsed program with the namespace it merges under.
type Aliased struct {
	Alias   string
	Program *script.Program
}

// MergeAliased returns base with each overlay program merged ahead of its
// commands under the overlay's alias, exactly as an include would be.
func MergeAliased(base *script.Program, overlays ...Aliased) *script.Program {
	if len(overlays) == 0 {
		return base
	}
	included := make([]*script.Program, len(overlays))
	for i, o := range overlays {
		included[i] = rewriteAlias(o.Program, o.Alias)
	}
	return mergePrograms(included, base)
}

// mergePrograms concatenates included programs ahead of the including
// file's own commands and rebuilds the label table over the result.
func mergePrograms(includes []*script.Program, own *script.Program) *script.Program {
	if len(includes) == 0 {
		return own
	}
	var commands []script.Command
	var manifest script.Manifest
	for _, inc := range includes {
		commands = append(commands, inc.Commands...)
		manifest.Merge(inc.Manifest)
	}
	commands = append(commands, own.Commands...)
	manifest.Merge(own.Manifest)
	return &script.Program{
		Commands: commands,
		Labels:   BuildLabelTable(commands),
		Manifest: manifest,
	}
}
