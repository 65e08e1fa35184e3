package parser

import (
	"github.com/cpyvn/cpyvn/pkg/script"
)

func (p *Parser) parseInput() error {
	p.next()
	variable, err := p.expectIdent()
	if err != nil {
		return err
	}
	prompt, err := p.expectString()
	if err != nil {
		return err
	}
	in := script.Input{Variable: variable, Prompt: prompt}
	if p.cur.Type == LBRACKET {
		p.next()
		word, err := p.expectIdent()
		if err != nil {
			return err
		}
		if word != "default" {
			return p.errorf("input options take 'default', got %q", word)
		}
		in.Default, err = p.expectString()
		if err != nil {
			return err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return err
		}
	}
	p.emit(in)
	return p.endStatement()
}

func (p *Parser) parsePhone() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "open":
		contact, err := p.expectString()
		if err != nil {
			return err
		}
		p.emit(script.Phone{Action: "open", Contact: contact})
	case "msg":
		side, err := p.expectIdent()
		if err != nil {
			return err
		}
		if side != "left" && side != "right" {
			return p.errorf("phone msg side must be left or right, got %q", side)
		}
		text, err := p.expectString()
		if err != nil {
			return err
		}
		p.emit(script.Phone{Action: "msg", Side: side, Text: text})
	case "close":
		p.emit(script.Phone{Action: "close"})
	default:
		return p.errorf("phone takes open, msg or close, got %q", verb)
	}
	return p.endStatement()
}

func (p *Parser) parseMeter() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "show":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		label, err := p.expectString()
		if err != nil {
			return err
		}
		min, err := p.expectNumber()
		if err != nil {
			return err
		}
		max, err := p.expectNumber()
		if err != nil {
			return err
		}
		meter := script.Meter{Action: "show", Var: name, Label: label, Min: min, Max: max}
		if p.cur.Type == IDENT && p.cur.Literal == "color" {
			p.next()
			tok := p.cur
			if tok.Type != COLOR {
				return p.errorf("meter color takes a color literal, got %s %q", tok.Type, tok.Literal)
			}
			p.next()
			meter.Color = tok.Literal
		}
		p.emit(meter)
	case "hide", "update":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.Meter{Action: verb, Var: name})
	case "clear":
		p.emit(script.Meter{Action: "clear"})
	default:
		return p.errorf("meter takes show, hide, update or clear, got %q", verb)
	}
	return p.endStatement()
}

func (p *Parser) parseItem() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "add":
		id, err := p.expectIdent()
		if err != nil {
			return err
		}
		name, err := p.expectString()
		if err != nil {
			return err
		}
		desc, err := p.expectString()
		if err != nil {
			return err
		}
		item := script.Item{Action: "add", ID: id, Name: name, Desc: desc, Amount: 1}
		for p.cur.Type == IDENT {
			switch p.cur.Literal {
			case "icon":
				p.next()
				item.Icon, err = p.expectString()
				if err != nil {
					return err
				}
				p.manifest.AddImage(item.Icon)
			case "amount":
				p.next()
				item.Amount, err = p.expectInt()
				if err != nil {
					return err
				}
			default:
				return p.errorf("unexpected item modifier %q", p.cur.Literal)
			}
		}
		p.emit(item)
	case "remove":
		id, err := p.expectIdent()
		if err != nil {
			return err
		}
		item := script.Item{Action: "remove", ID: id, Amount: 1}
		if p.cur.Type == IDENT && p.cur.Literal == "amount" {
			p.next()
			item.Amount, err = p.expectInt()
			if err != nil {
				return err
			}
		}
		p.emit(item)
	case "clear":
		p.emit(script.Item{Action: "clear"})
	default:
		return p.errorf("item takes add, remove or clear, got %q", verb)
	}
	return p.endStatement()
}

func (p *Parser) parseMap() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "show":
		image, err := p.expectString()
		if err != nil {
			return err
		}
		p.manifest.AddImage(image)
		p.emit(script.Map{Action: "show", Image: image})
	case "poi":
		label, err := p.expectString()
		if err != nil {
			return err
		}
		x, err := p.expectNumber()
		if err != nil {
			return err
		}
		y, err := p.expectNumber()
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
		p.emit(script.Map{Action: "poi", Label: label, Pos: script.Point{X: x, Y: y}, Target: target})
	case "hide":
		p.emit(script.Map{Action: "hide"})
	default:
		return p.errorf("map takes show, poi or hide, got %q", verb)
	}
	return p.endStatement()
}

func (p *Parser) parseHotspot() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "add":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		var nums [4]float64
		for i := range nums {
			if nums[i], err = p.expectNumber(); err != nil {
				return err
			}
		}
		if _, err := p.expect(ARROW); err != nil {
			return err
		}
		target, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.HotspotAdd{
			Name:   name,
			Rect:   script.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]},
			Target: target,
		})
	case "poly":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		var points []script.Point
		for p.cur.Type == NUMBER {
			x, err := p.expectNumber()
			if err != nil {
				return err
			}
			y, err := p.expectNumber()
			if err != nil {
				return err
			}
			points = append(points, script.Point{X: x, Y: y})
		}
		if len(points) < 3 {
			return p.errorf("hotspot poly needs at least three points")
		}
		if _, err := p.expect(ARROW); err != nil {
			return err
		}
		target, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.HotspotPoly{Name: name, Points: points, Target: target})
	case "debug":
		state, err := p.expectIdent()
		if err != nil {
			return err
		}
		switch state {
		case "on":
			p.emit(script.HotspotDebug{Enabled: true})
		case "off":
			p.emit(script.HotspotDebug{Enabled: false})
		default:
			return p.errorf("hotspot debug takes on or off, got %q", state)
		}
	case "remove":
		if p.cur.Type == IDENT {
			name := p.cur.Literal
			p.next()
			p.emit(script.HotspotRemove{Name: name})
		} else {
			p.emit(script.HotspotRemove{})
		}
	case "clear":
		p.emit(script.HotspotRemove{})
	default:
		return p.errorf("hotspot takes add, poly, debug, remove or clear, got %q", verb)
	}
	return p.endStatement()
}

func (p *Parser) parseHud() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "add":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		style, err := p.expectIdent()
		if err != nil {
			return err
		}
		hud := script.HudAdd{Name: name, Style: style}
		switch style {
		case "text":
			hud.Text, err = p.expectString()
			if err != nil {
				return err
			}
		case "icon":
			hud.Icon, err = p.expectString()
			if err != nil {
				return err
			}
			p.manifest.AddImage(hud.Icon)
		case "both":
			hud.Icon, err = p.expectString()
			if err != nil {
				return err
			}
			p.manifest.AddImage(hud.Icon)
			hud.Text, err = p.expectString()
			if err != nil {
				return err
			}
		default:
			return p.errorf("hud style must be one of both, icon, text, got %q", style)
		}
		var nums [4]float64
		for i := range nums {
			if nums[i], err = p.expectNumber(); err != nil {
				return err
			}
		}
		hud.Rect = script.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
		if _, err := p.expect(ARROW); err != nil {
			return err
		}
		hud.Target, err = p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(hud)
	case "remove":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.HudRemove{Name: name})
	case "clear":
		p.emit(script.HudRemove{})
	default:
		return p.errorf("hud takes add, remove or clear, got %q", verb)
	}
	return p.endStatement()
}
