package parser

import (
	"github.com/cpyvn/cpyvn/pkg/script"
)

// showMods accumulates the optional named modifiers shared by the
// scene/add/show/off statement family. Fields stay nil when absent.
type showMods struct {
	anchor     string
	z          *int
	fade       *float64
	style      string
	styleSecs  *float64
	floatAmp   *float64
	floatSpeed *float64
	size       *script.Size
	pos        *script.Point
}

// modSet declares which modifier groups a statement accepts.
type modSet struct {
	anchor     bool
	z          bool
	transition bool
	float      bool
	size       bool
	pos        bool
}

func isAnchorWord(word string) bool {
	switch word {
	case "left", "center", "right", "top", "middle", "bottom":
		return true
	}
	return false
}

// parseMods consumes modifiers until the statement terminator. Anchor
// words join in the order written ("center middle"). A bare transition
// style takes its duration; `fade` additionally records the fade seconds.
func (p *Parser) parseMods(allowed modSet) (showMods, error) {
	var m showMods
	var anchorWords []string

	for p.cur.Type != SEMICOLON && p.cur.Type != EOF {
		if p.cur.Type != IDENT {
			return m, p.errorf("unexpected %s %q in modifiers", p.cur.Type, p.cur.Literal)
		}
		word := p.cur.Literal
		switch {
		case allowed.anchor && isAnchorWord(word):
			anchorWords = append(anchorWords, word)
			p.next()
		case allowed.z && word == "z":
			p.next()
			z, err := p.expectInt()
			if err != nil {
				return m, err
			}
			m.z = &z
		case allowed.transition && word == "fade":
			p.next()
			secs, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			m.fade = &secs
			m.style = "fade"
			m.styleSecs = &secs
		case allowed.float && word == "float":
			p.next()
			amp, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			speed, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			m.floatAmp = &amp
			m.floatSpeed = &speed
		case allowed.size && word == "size":
			p.next()
			w, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			h, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			m.size = &script.Size{W: w, H: h}
			if p.cur.Type == NUMBER {
				x, err := p.expectNumber()
				if err != nil {
					return m, err
				}
				y, err := p.expectNumber()
				if err != nil {
					return m, err
				}
				m.pos = &script.Point{X: x, Y: y}
			}
		case allowed.pos && word == "pos":
			p.next()
			x, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			y, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			m.pos = &script.Point{X: x, Y: y}
		case allowed.transition && transitionStyles[word]:
			p.next()
			secs, err := p.expectNumber()
			if err != nil {
				return m, err
			}
			m.style = word
			m.styleSecs = &secs
		default:
			if allowed.transition {
				return m, p.errorf("transition style must be one of %s", vocabList(transitionStyles))
			}
			return m, p.errorf("unexpected modifier %q", word)
		}
	}

	if len(anchorWords) > 0 {
		m.anchor = anchorWords[0]
		for _, w := range anchorWords[1:] {
			m.anchor += " " + w
		}
	}
	return m, nil
}

func (p *Parser) parseScene() error {
	p.next()
	kind, err := p.expectIdent()
	if err != nil {
		return err
	}

	var value string
	switch kind {
	case "image":
		value, err = p.expectString()
		if err != nil {
			return err
		}
		p.manifest.AddImage(value)
	case "color":
		tok := p.cur
		if tok.Type != COLOR && tok.Type != STRING {
			return p.errorf("scene color takes a color literal, got %s %q", tok.Type, tok.Literal)
		}
		p.next()
		value = tok.Literal
	default:
		return p.errorf("scene takes image or color, got %q", kind)
	}

	m, err := p.parseMods(modSet{transition: true, float: true})
	if err != nil {
		return err
	}
	p.emit(script.Scene{
		Kind:              kind,
		Value:             value,
		Fade:              m.fade,
		FloatAmp:          m.floatAmp,
		FloatSpeed:        m.floatSpeed,
		TransitionStyle:   m.style,
		TransitionSeconds: m.styleSecs,
	})
	return p.endStatement()
}

func (p *Parser) parseAdd() error {
	p.next()
	kind, err := p.expectIdent()
	if err != nil {
		return err
	}
	return p.parseShowBody(kind)
}

func (p *Parser) parseShow() error {
	p.next()
	first, err := p.expectIdent()
	if err != nil {
		return err
	}
	if first == "image" || first == "rect" {
		return p.parseShowBody(first)
	}
	return p.parseShowChar(first)
}

// parseShowBody parses the remainder of an add/show statement for free
// sprites. Rect sprites take their color and extent positionally.
func (p *Parser) parseShowBody(kind string) error {
	if kind != "image" && kind != "rect" {
		return p.errorf("sprite kind must be image or rect, got %q", kind)
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}

	show := script.Show{Kind: kind, Name: name}
	switch kind {
	case "image":
		show.Value, err = p.expectString()
		if err != nil {
			return err
		}
		p.manifest.AddImage(show.Value)
	case "rect":
		tok := p.cur
		if tok.Type != COLOR {
			return p.errorf("rect takes a color literal, got %s %q", tok.Type, tok.Literal)
		}
		p.next()
		show.Value = tok.Literal
		w, err := p.expectNumber()
		if err != nil {
			return err
		}
		h, err := p.expectNumber()
		if err != nil {
			return err
		}
		show.Size = &script.Size{W: w, H: h}
	}

	m, err := p.parseMods(modSet{anchor: true, z: true, transition: true, float: true, size: kind == "image", pos: true})
	if err != nil {
		return err
	}
	show.Anchor = m.anchor
	show.Z = m.z
	show.Fade = m.fade
	show.TransitionStyle = m.style
	show.TransitionSeconds = m.styleSecs
	show.FloatAmp = m.floatAmp
	show.FloatSpeed = m.floatSpeed
	if m.size != nil {
		show.Size = m.size
	}
	if m.pos != nil {
		show.Pos = m.pos
	}
	p.emit(show)
	return p.endStatement()
}

func (p *Parser) parseShowChar(ident string) error {
	expr, err := p.expectIdent()
	if err != nil {
		return err
	}
	m, err := p.parseMods(modSet{anchor: true, z: true, transition: true, float: true, pos: true})
	if err != nil {
		return err
	}
	p.emit(script.ShowChar{
		Ident:             ident,
		Expression:        expr,
		Anchor:            m.anchor,
		Z:                 m.z,
		Fade:              m.fade,
		TransitionStyle:   m.style,
		TransitionSeconds: m.styleSecs,
		FloatAmp:          m.floatAmp,
		FloatSpeed:        m.floatSpeed,
		Pos:               m.pos,
	})
	return p.endStatement()
}

func (p *Parser) parseHide() error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	m, err := p.parseMods(modSet{transition: true})
	if err != nil {
		return err
	}
	p.emit(script.Hide{
		Name:              name,
		Fade:              m.fade,
		TransitionStyle:   m.style,
		TransitionSeconds: m.styleSecs,
	})
	return p.endStatement()
}

func (p *Parser) parseCamera() error {
	p.next()
	if p.cur.Type == IDENT && p.cur.Literal == "reset" {
		p.next()
		p.emit(script.CameraSet{PanX: 0, PanY: 0, Zoom: 1.0})
		return p.endStatement()
	}
	x, err := p.expectNumber()
	if err != nil {
		return err
	}
	y, err := p.expectNumber()
	if err != nil {
		return err
	}
	zoom, err := p.expectNumber()
	if err != nil {
		return err
	}
	p.emit(script.CameraSet{PanX: x, PanY: y, Zoom: zoom})
	return p.endStatement()
}

func (p *Parser) parseAnimate() error {
	p.next()
	if p.cur.Type == IDENT && p.cur.Literal == "stop" {
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		p.emit(script.Animate{Name: name, Action: "stop"})
		return p.endStatement()
	}

	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	action, err := p.expectIdent()
	if err != nil {
		return err
	}

	anim := script.Animate{Name: name, Action: action}
	switch action {
	case "move", "size":
		anim.V1, err = p.expectNumber()
		if err != nil {
			return err
		}
		anim.V2, err = p.expectNumber()
		if err != nil {
			return err
		}
	case "alpha":
		anim.V1, err = p.expectNumber()
		if err != nil {
			return err
		}
	default:
		return p.errorf("animate action must be one of alpha, move, size, stop, got %q", action)
	}

	anim.Seconds, err = p.expectNumber()
	if err != nil {
		return err
	}
	if p.cur.Type != IDENT || !easeKinds[p.cur.Literal] {
		return p.errorf("animate ease must be one of %s", vocabList(easeKinds))
	}
	anim.Ease = p.cur.Literal
	p.next()

	p.emit(anim)
	return p.endStatement()
}
