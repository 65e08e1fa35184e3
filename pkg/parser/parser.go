// Package parser compiles visual-novel script text into the flat command
// form the runtime executes. Parsing is statement-oriented: every statement
// is keyword-led, semicolon-terminated (labels end with a colon) and block
// constructs expand inline into commands plus synthetic labels.
package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// Include is a directive collected during parsing. The loader resolves the
// path and merges the included program under the alias.
type Include struct {
	Path  string
	Alias string
	Line  int
}

// Result is the output of parsing one file, before include expansion.
type Result struct {
	Program  *script.Program
	Includes []Include
}

// Parser consumes the token stream of one script file and emits commands.
type Parser struct {
	l    *Lexer
	file string

	cur  Token
	peek Token

	commands []script.Command
	manifest script.Manifest
	includes []Include

	skipSeq int  // next synthetic check-skip label number
	sawBody bool // a command-producing statement has been parsed
}

// NewParser creates a Parser over source text. The file name is used in
// error messages only.
func NewParser(source, file string) *Parser {
	p := &Parser{l: New(source), file: file}
	p.next()
	p.next()
	return p
}

// Parse parses the whole file. The returned program has its label table
// built from the emitted Label commands; includes are returned unresolved.
func (p *Parser) Parse() (*Result, error) {
	for p.cur.Type != EOF {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	prog := &script.Program{
		Commands: p.commands,
		Labels:   BuildLabelTable(p.commands),
		Manifest: p.manifest,
	}
	return &Result{Program: prog, Includes: p.includes}, nil
}

// ParseSource parses a standalone script without include expansion. Files
// containing include directives must go through a Loader.
func ParseSource(source, file string) (*script.Program, error) {
	res, err := NewParser(source, file).Parse()
	if err != nil {
		return nil, err
	}
	if len(res.Includes) > 0 {
		return nil, &ParseError{
			Phase:   "parser",
			Message: "include requires a script loader",
			File:    file,
			Line:    res.Includes[0].Line,
		}
	}
	return res.Program, nil
}

// BuildLabelTable maps each Label command's name to its index. A repeated
// name keeps the last occurrence.
func BuildLabelTable(commands []script.Command) map[string]int {
	labels := make(map[string]int)
	for i, cmd := range commands {
		if l, ok := cmd.(script.Label); ok {
			labels[l.Name] = i
		}
	}
	return labels
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) emit(cmd script.Command) {
	p.commands = append(p.commands, cmd)
}

func (p *Parser) errorf(format string, args ...any) error {
	return newParseError(fmt.Sprintf(format, args...), p.cur, p.l.GetSource(), p.file)
}

func (p *Parser) expect(t TokenType) (Token, error) {
	if p.cur.Type != t {
		return p.cur, p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.expect(IDENT)
	return tok.Literal, err
}

func (p *Parser) expectString() (string, error) {
	tok, err := p.expect(STRING)
	return tok.Literal, err
}

func (p *Parser) expectNumber() (float64, error) {
	tok, err := p.expect(NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return 0, newParseError("malformed number "+tok.Literal, tok, p.l.GetSource(), p.file)
	}
	return n, nil
}

func (p *Parser) expectInt() (int, error) {
	n, err := p.expectNumber()
	return int(n), err
}

// endStatement consumes the terminating semicolon.
func (p *Parser) endStatement() error {
	_, err := p.expect(SEMICOLON)
	return err
}

// optionalSemicolon consumes a semicolon if one is present, as after a
// closing brace.
func (p *Parser) optionalSemicolon() {
	if p.cur.Type == SEMICOLON {
		p.next()
	}
}

func (p *Parser) parseStatement() error {
	if p.cur.Type != IDENT {
		return p.errorf("expected a statement, got %s %q", p.cur.Type, p.cur.Literal)
	}

	keyword := p.cur.Literal
	if keyword != "include" {
		p.sawBody = true
	}

	switch keyword {
	case "include":
		return p.parseInclude()
	case "label":
		return p.parseLabel()
	case "go", "goto":
		return p.parseJump()
	case "ask":
		return p.parseAsk()
	case "scene":
		return p.parseScene()
	case "add":
		return p.parseAdd()
	case "show":
		return p.parseShow()
	case "off":
		return p.parseHide()
	case "camera":
		return p.parseCamera()
	case "animate":
		return p.parseAnimate()
	case "play":
		return p.parseMusic()
	case "sound":
		return p.parseSound()
	case "echo":
		return p.parseEcho()
	case "voice":
		return p.parseVoice()
	case "mute":
		return p.parseMute()
	case "preload":
		return p.parsePreload()
	case "cache":
		return p.parseCache()
	case "gc":
		p.next()
		p.emit(script.GarbageCollect{})
		return p.endStatement()
	case "wait":
		return p.parseWait()
	case "notify":
		return p.parseNotify()
	case "blend":
		return p.parseBlend()
	case "save":
		return p.parseSaveLoad(true)
	case "load":
		return p.parseSaveLoad(false)
	case "set":
		return p.parseSet()
	case "track":
		return p.parseTrack()
	case "check":
		return p.parseCheck()
	case "loading":
		return p.parseLoading()
	case "call":
		return p.parseCall()
	case "character":
		return p.parseCharacter()
	case "input":
		return p.parseInput()
	case "phone":
		return p.parsePhone()
	case "meter":
		return p.parseMeter()
	case "item":
		return p.parseItem()
	case "map":
		return p.parseMap()
	case "video":
		return p.parseVideo()
	case "hotspot":
		return p.parseHotspot()
	case "hud":
		return p.parseHud()
	}

	// Anything else is a speaker line: <speaker> "text";
	return p.parseSay()
}

func (p *Parser) parseInclude() error {
	if p.sawBody {
		return p.errorf("include must appear before any other commands")
	}
	line := p.cur.Line
	p.next()
	path, err := p.expectString()
	if err != nil {
		return err
	}
	as, err := p.expectIdent()
	if err != nil {
		return err
	}
	if as != "as" {
		return p.errorf("expected 'as' in include, got %q", as)
	}
	alias, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.includes = append(p.includes, Include{Path: path, Alias: alias, Line: line})
	return p.endStatement()
}

func (p *Parser) parseLabel() error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.emit(script.Label{Name: name})
	_, err = p.expect(COLON)
	return err
}

func (p *Parser) parseJump() error {
	p.next()
	target, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.emit(script.Jump{Target: target})
	return p.endStatement()
}

func (p *Parser) parseSay() error {
	speaker := p.cur.Literal
	p.next()
	text, err := p.expectString()
	if err != nil {
		return err
	}
	p.emit(script.Say{Speaker: speaker, Text: text})
	return p.endStatement()
}

func (p *Parser) parseWait() error {
	p.next()
	switch p.cur.Type {
	case NUMBER:
		secs, err := p.expectNumber()
		if err != nil {
			return err
		}
		p.emit(script.Wait{Seconds: secs})
	case IDENT:
		switch p.cur.Literal {
		case "voice":
			p.emit(script.WaitVoice{})
		case "video":
			p.emit(script.WaitVideo{})
		default:
			return p.errorf("wait takes a duration, 'voice' or 'video', got %q", p.cur.Literal)
		}
		p.next()
	default:
		return p.errorf("wait takes a duration, 'voice' or 'video'")
	}
	return p.endStatement()
}

func (p *Parser) parseNotify() error {
	p.next()
	text, err := p.expectString()
	if err != nil {
		return err
	}
	secs, err := p.expectNumber()
	if err != nil {
		return err
	}
	p.emit(script.Notify{Text: text, Seconds: secs})
	return p.endStatement()
}

func (p *Parser) parseBlend() error {
	p.next()
	style, err := p.expectIdent()
	if err != nil {
		return err
	}
	if !blendStyles[style] {
		return p.errorf("blend style must be one of %s", vocabList(blendStyles))
	}
	secs, err := p.expectNumber()
	if err != nil {
		return err
	}
	p.emit(script.Blend{Style: style, Seconds: secs})
	return p.endStatement()
}

func (p *Parser) parseSaveLoad(save bool) error {
	p.next()
	slot, err := p.expectIdent()
	if err != nil {
		return err
	}
	if save {
		p.emit(script.Save{Slot: slot})
	} else {
		p.emit(script.Load{Slot: slot})
	}
	return p.endStatement()
}

func (p *Parser) parseSet() error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	value, err := p.parseValue()
	if err != nil {
		return err
	}
	p.emit(script.SetVar{Name: name, Value: value})
	return p.endStatement()
}

// parseValue reads a scalar literal: number, string, color, true/false,
// a $variable reference or a bare word (stored as a string).
func (p *Parser) parseValue() (script.Value, error) {
	tok := p.cur
	switch tok.Type {
	case NUMBER:
		n, err := p.expectNumber()
		if err != nil {
			return script.Value{}, err
		}
		return script.NumberValue(n), nil
	case STRING, COLOR:
		p.next()
		return script.StringValue(tok.Literal), nil
	case VARREF:
		p.next()
		return script.StringValue(tok.Literal), nil
	case IDENT:
		p.next()
		switch tok.Literal {
		case "true":
			return script.BoolValue(true), nil
		case "false":
			return script.BoolValue(false), nil
		}
		return script.StringValue(tok.Literal), nil
	}
	return script.Value{}, p.errorf("expected a value, got %s %q", tok.Type, tok.Literal)
}

func (p *Parser) parseTrack() error {
	p.next()
	var words []string
	for p.cur.Type == IDENT {
		words = append(words, p.cur.Literal)
		p.next()
	}
	if len(words) == 0 {
		return p.errorf("track needs a variable name")
	}
	amount, err := p.expectNumber()
	if err != nil {
		return err
	}
	p.emit(script.AddVar{Name: strings.Join(words, "_"), Amount: amount})
	return p.endStatement()
}

func (p *Parser) parseCall() error {
	p.next()
	path, err := p.expectString()
	if err != nil {
		return err
	}
	label, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.emit(script.Call{Path: path, Label: label})
	return p.endStatement()
}

func (p *Parser) parseMute() error {
	p.next()
	target, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.emit(script.Mute{Target: target})
	return p.endStatement()
}

func (p *Parser) parsePreload() error {
	p.next()
	kind, err := p.expectIdent()
	if err != nil {
		return err
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	if kindIsSound(kind) {
		p.manifest.AddSound(path)
	} else {
		p.manifest.AddImage(path)
	}
	p.emit(script.Preload{Kind: kind, Path: path})
	return p.endStatement()
}

func (p *Parser) parseCache() error {
	p.next()
	verb, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch verb {
	case "clear":
		return p.parseCacheClear()
	case "pin", "unpin":
		kind, err := p.expectIdent()
		if err != nil {
			return err
		}
		path, err := p.expectString()
		if err != nil {
			return err
		}
		if verb == "pin" {
			p.emit(script.CachePin{Kind: kind, Path: path})
		} else {
			p.emit(script.CacheUnpin{Kind: kind, Path: path})
		}
		return p.endStatement()
	}
	return p.errorf("cache takes clear, pin or unpin, got %q", verb)
}

func (p *Parser) parseCacheClear() error {
	kind, err := p.expectIdent()
	if err != nil {
		return err
	}
	switch kind {
	case "images", "scripts", "runtime":
		p.emit(script.CacheClear{Kind: kind})
	case "scene":
		// Scene state lives in the runtime; the two clears are the same.
		p.emit(script.CacheClear{Kind: "runtime"})
	case "script":
		path, err := p.expectString()
		if err != nil {
			return err
		}
		p.emit(script.CacheClear{Kind: "script", Path: path})
	default:
		return p.errorf("cache clear takes images, scripts, runtime, scene or script, got %q", kind)
	}
	return p.endStatement()
}

func kindIsSound(kind string) bool {
	switch kind {
	case "audio", "sound", "sounds", "voice", "music":
		return true
	}
	return false
}

// vocabList renders a closed vocabulary for error messages, sorted.
func vocabList(set map[string]bool) string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, ", ")
}

var blendStyles = map[string]bool{
	"fade": true, "wipe": true, "slide": true, "dissolve": true,
	"zoom": true, "blur": true, "flash": true, "shake": true, "none": true,
}

var transitionStyles = map[string]bool{
	"fade": true, "wipe": true, "slide": true, "dissolve": true,
	"zoom": true, "blur": true, "flash": true, "shake": true, "none": true,
}

var easeKinds = map[string]bool{
	"linear": true, "in": true, "out": true, "inout": true,
}

var videoFits = map[string]bool{
	"contain": true, "cover": true,
}
