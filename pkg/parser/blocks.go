package parser

import (
	"fmt"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// parseAsk parses a choice block. Options may be wrapped in brackets or
// written bare; the semicolons between options are optional either way.
func (p *Parser) parseAsk() error {
	p.next()
	prompt, err := p.expectString()
	if err != nil {
		return err
	}

	choice := script.Choice{Prompt: prompt}
	if p.cur.Type == IDENT && p.cur.Literal == "timeout" {
		p.next()
		secs, err := p.expectNumber()
		if err != nil {
			return err
		}
		word, err := p.expectIdent()
		if err != nil {
			return err
		}
		if word != "default" {
			return p.errorf("ask timeout takes 'default', got %q", word)
		}
		idx, err := p.expectInt()
		if err != nil {
			return err
		}
		choice.TimeoutSeconds = &secs
		choice.TimeoutDefault = &idx
	}

	bracketed := p.cur.Type == LBRACKET
	if bracketed {
		p.next()
	}

	for {
		text, err := p.expectString()
		if err != nil {
			return err
		}
		if _, err := p.expect(ARROW); err != nil {
			return err
		}
		target, err := p.expectIdent()
		if err != nil {
			return err
		}
		choice.Options = append(choice.Options, script.ChoiceOption{Text: text, Target: target})

		if p.cur.Type == SEMICOLON {
			p.next()
		}
		if bracketed {
			if p.cur.Type == RBRACKET {
				p.next()
				break
			}
			continue
		}
		if p.cur.Type != STRING {
			break
		}
	}

	if bracketed {
		p.optionalSemicolon()
	}
	p.emit(choice)
	return nil
}

// invertOp returns the logical inverse of a comparison operator. Check
// blocks jump over their body when the written condition fails.
func invertOp(op string) string {
	switch op {
	case "==":
		return "!="
	case "!=":
		return "=="
	case ">":
		return "<="
	case "<":
		return ">="
	case ">=":
		return "<"
	case "<=":
		return ">"
	}
	return op
}

func (p *Parser) parseCheck() error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}

	var op string
	switch p.cur.Type {
	case EQ, NOT_EQ, GT, GTE, LT, LTE:
		op = p.cur.Literal
		p.next()
	default:
		return p.errorf("check operator must be one of ==, !=, >, >=, <, <=, got %q", p.cur.Literal)
	}

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	if p.cur.Type == IDENT && (p.cur.Literal == "go" || p.cur.Literal == "goto") {
		p.next()
		target, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.IfJump{Name: name, Op: op, Value: value, Target: target})
		return p.endStatement()
	}

	if p.cur.Type != LBRACE {
		return p.errorf("check takes 'go <label>' or a block, got %s %q", p.cur.Type, p.cur.Literal)
	}
	p.next()

	skip := fmt.Sprintf("__check_skip_%d", p.skipSeq)
	p.skipSeq++
	p.emit(script.IfJump{Name: name, Op: invertOp(op), Value: value, Target: skip})

	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	if _, err := p.expect(RBRACE); err != nil {
		return err
	}
	p.emit(script.Label{Name: skip})
	p.optionalSemicolon()
	return nil
}

func (p *Parser) parseLoading() error {
	p.next()
	text, err := p.expectString()
	if err != nil {
		return err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return err
	}
	p.emit(script.Loading{Action: "start", Text: text})

	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	if _, err := p.expect(RBRACE); err != nil {
		return err
	}
	p.emit(script.Loading{Action: "end"})
	p.optionalSemicolon()
	return nil
}

func (p *Parser) parseCharacter() error {
	p.next()
	ident, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return err
	}

	def := script.CharacterDef{Ident: ident, Sprites: make(map[string]string)}
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		field, err := p.expectIdent()
		if err != nil {
			return err
		}
		switch field {
		case "name":
			def.DisplayName, err = p.expectString()
			if err != nil {
				return err
			}
		case "color":
			tok := p.cur
			if tok.Type != COLOR && tok.Type != STRING {
				return p.errorf("character color takes a color literal, got %s %q", tok.Type, tok.Literal)
			}
			p.next()
			def.Color = tok.Literal
		case "voice":
			def.VoiceTag, err = p.expectString()
			if err != nil {
				return err
			}
		case "pos":
			x, err := p.expectNumber()
			if err != nil {
				return err
			}
			y, err := p.expectNumber()
			if err != nil {
				return err
			}
			def.Pos = &script.Point{X: x, Y: y}
		case "anchor":
			var words string
			for p.cur.Type == IDENT && isAnchorWord(p.cur.Literal) {
				if words != "" {
					words += " "
				}
				words += p.cur.Literal
				p.next()
			}
			if words == "" {
				return p.errorf("character anchor needs at least one anchor word")
			}
			def.Anchor = words
		case "z":
			z, err := p.expectInt()
			if err != nil {
				return err
			}
			def.Z = &z
		case "float":
			amp, err := p.expectNumber()
			if err != nil {
				return err
			}
			speed, err := p.expectNumber()
			if err != nil {
				return err
			}
			def.FloatAmp = &amp
			def.FloatSpeed = &speed
		case "sprite":
			key, err := p.expectIdent()
			if err != nil {
				return err
			}
			path, err := p.expectString()
			if err != nil {
				return err
			}
			def.Sprites[key] = path
			p.manifest.AddImage(path)
		default:
			return p.errorf("unknown character field %q", field)
		}
		if err := p.endStatement(); err != nil {
			return err
		}
	}
	if _, err := p.expect(RBRACE); err != nil {
		return err
	}
	p.optionalSemicolon()
	p.emit(def)
	return nil
}
