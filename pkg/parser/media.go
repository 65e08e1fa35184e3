package parser

import (
	"github.com/cpyvn/cpyvn/pkg/script"
)

func (p *Parser) parseMusic() error {
	p.next()
	tune, err := p.expectIdent()
	if err != nil {
		return err
	}
	if tune != "tune" {
		return p.errorf("play takes 'tune', got %q", tune)
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	loop := true
	if p.cur.Type == IDENT {
		switch p.cur.Literal {
		case "true":
			loop = true
		case "false":
			loop = false
		default:
			return p.errorf("play loop flag must be true or false, got %q", p.cur.Literal)
		}
		p.next()
	}
	p.manifest.AddSound(path)
	p.emit(script.Music{Path: path, Loop: loop})
	return p.endStatement()
}

func (p *Parser) parseSound() error {
	p.next()
	effect, err := p.expectIdent()
	if err != nil {
		return err
	}
	if effect != "effect" {
		return p.errorf("sound takes 'effect', got %q", effect)
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	p.manifest.AddSound(path)
	p.emit(script.Sound{Path: path})
	return p.endStatement()
}

func (p *Parser) parseEcho() error {
	p.next()
	if p.cur.Type == IDENT && p.cur.Literal == "stop" {
		p.next()
		p.emit(script.Echo{Action: "stop"})
		return p.endStatement()
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	action, err := p.expectIdent()
	if err != nil {
		return err
	}
	if action != "start" {
		return p.errorf("echo takes start or stop, got %q", action)
	}
	p.manifest.AddSound(path)
	p.emit(script.Echo{Action: "start", Path: path})
	return p.endStatement()
}

func (p *Parser) parseVoice() error {
	p.next()
	var character string
	if p.cur.Type == IDENT {
		character = p.cur.Literal
		p.next()
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	p.manifest.AddSound(path)
	p.emit(script.Voice{Character: character, Path: path})
	return p.endStatement()
}

func (p *Parser) parseVideo() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "stop":
		p.emit(script.Video{Action: "stop"})
		return p.endStatement()
	case "play":
	default:
		return p.errorf("video takes play or stop, got %q", verb)
	}

	path, err := p.expectString()
	if err != nil {
		return err
	}
	video := script.Video{Action: "play", Path: path, Fit: "contain"}

	for p.cur.Type == IDENT {
		switch p.cur.Literal {
		case "loop":
			p.next()
			flag, err := p.expectIdent()
			if err != nil {
				return err
			}
			switch flag {
			case "true":
				video.Loop = true
			case "false":
				video.Loop = false
			default:
				return p.errorf("video loop flag must be true or false, got %q", flag)
			}
		case "fit":
			p.next()
			fit, err := p.expectIdent()
			if err != nil {
				return err
			}
			if !videoFits[fit] {
				return p.errorf("video fit must be one of %s", vocabList(videoFits))
			}
			video.Fit = fit
		default:
			return p.errorf("unexpected video modifier %q", p.cur.Literal)
		}
	}

	p.manifest.AddVideo(path)
	p.emit(video)
	return p.endStatement()
}
