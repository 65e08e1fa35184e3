// Command cpyvn-lint validates a project without running it: project.json
// against its schema, script syntax, jump targets, the call graph and
// menu action names. Output is one line per problem; the exit status is
// nonzero when anything failed.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/parser"
	"github.com/cpyvn/cpyvn/pkg/script"
)

func main() {
	all := flag.Bool("all", false, "also parse every .cvn file under the project root")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	l := &linter{loader: parser.NewLoader(), visited: make(map[string]bool)}
	l.run(flag.Arg(0), *all)

	if l.problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s)\n", l.problems)
		os.Exit(1)
	}
	fmt.Printf("ok: %d file(s) checked\n", l.checked)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cpyvn-lint [-all] <project-dir | script.cvn>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Checks a project directory (project.json, menus, the entry script and")
	fmt.Fprintln(os.Stderr, "everything reachable from it) or a single script file.")
	flag.PrintDefaults()
}

type linter struct {
	loader   *parser.Loader
	visited  map[string]bool
	checked  int
	problems int
}

func (l *linter) reportf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	l.problems++
}

func (l *linter) run(target string, all bool) {
	info, err := os.Stat(target)
	if err != nil {
		l.reportf("%v", err)
		return
	}
	if !info.IsDir() {
		l.checkScript(target)
		return
	}
	l.checkProject(target, all)
}

// checkProject validates project.json, the menu files, the feature
// overlays and the entry script with everything its call graph reaches.
func (l *linter) checkProject(dir string, all bool) {
	project, err := config.LoadProject(filepath.Join(dir, "project.json"))
	if err != nil {
		l.reportf("%v", err)
		return
	}

	l.checkMenus(project)

	names := make([]string, 0, len(project.Features))
	for name, feat := range project.Features {
		if feat.Use && feat.Path != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(project.Root, filepath.FromSlash(project.Features[name].Path))
		if err := l.loader.Overlay(name, path); err != nil {
			l.reportf("feature %s: %v", name, err)
		}
	}

	l.checkScript(project.EntryPath())

	if all {
		l.checkRemaining(project)
	}
}

// checkScript parses one script and validates its jump targets, then
// follows call statements into the scripts they load.
func (l *linter) checkScript(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		l.reportf("%s: %v", path, err)
		return
	}
	if l.visited[abs] {
		return
	}
	l.visited[abs] = true

	prog, err := l.loader.Load(abs)
	if err != nil {
		l.reportf("%v", err)
		return
	}
	l.checked++
	l.checkLabels(prog, abs)

	for _, cmd := range prog.Commands {
		call, ok := cmd.(script.Call)
		if !ok {
			continue
		}
		called := filepath.Join(filepath.Dir(abs), filepath.FromSlash(call.Path))
		calledProg, err := l.loader.Load(called)
		if err != nil {
			l.reportf("%v", err)
			continue
		}
		label := strings.TrimPrefix(call.Label, "::")
		if _, ok := calledProg.Labels[label]; !ok {
			l.reportf("%s: call targets unknown label %q in %s", abs, label, call.Path)
		}
		l.checkScript(called)
	}
}

// checkLabels verifies every jump-like target against the program's
// label table. The pseudo-target inventory_toggle is always valid, and
// a leading :: is stripped the way the interpreter strips it.
func (l *linter) checkLabels(prog *script.Program, path string) {
	check := func(target, what string) {
		target = strings.TrimPrefix(target, "::")
		if target == "" || target == "inventory_toggle" {
			return
		}
		if _, ok := prog.Labels[target]; !ok {
			l.reportf("%s: %s targets unknown label %q", path, what, target)
		}
	}
	for _, cmd := range prog.Commands {
		switch c := cmd.(type) {
		case script.Jump:
			check(c.Target, "jump")
		case script.IfJump:
			check(c.Target, "if")
		case script.Choice:
			for _, opt := range c.Options {
				check(opt.Target, "choice option "+strconv.Quote(opt.Text))
			}
		case script.Map:
			if c.Action == "poi" {
				check(c.Target, "map poi "+strconv.Quote(c.Label))
			}
		case script.HotspotAdd:
			check(c.Target, "hotspot "+strconv.Quote(c.Name))
		case script.HotspotPoly:
			check(c.Target, "hotspot "+strconv.Quote(c.Name))
		case script.HudAdd:
			check(c.Target, "hud button "+strconv.Quote(c.Name))
		}
	}
}

var titleActions = map[string]bool{
	"": true, "new_game": true, "continue": true,
	"open_load": true, "open_prefs": true, "quit": true,
}

var pauseActions = map[string]bool{
	"": true, "resume": true, "quick_save": true, "quick_load": true,
	"open_save": true, "open_load": true, "open_prefs": true, "quit": true,
}

func (l *linter) checkMenus(project *config.Project) {
	titlePath := filepath.Join(project.Root, filepath.FromSlash(project.UI.TitleMenuFile))
	if _, err := os.Stat(titlePath); err == nil {
		menu := config.LoadTitleMenu(titlePath)
		for _, b := range menu.Buttons {
			if !titleActions[b.Action] {
				l.reportf("%s: button %q has unknown action %q", titlePath, b.Label, b.Action)
			}
		}
	}
	pausePath := filepath.Join(project.Root, filepath.FromSlash(project.UI.PauseMenuFile))
	if _, err := os.Stat(pausePath); err == nil {
		menu := config.LoadPauseMenu(pausePath)
		for _, b := range menu.Buttons {
			if !pauseActions[b.Action] {
				l.reportf("%s: button %q has unknown action %q", pausePath, b.Label, b.Action)
			}
		}
	}
}

// checkRemaining parses the .cvn files nothing reached, syntax only.
// Include fragments jump into labels their including script defines, so
// label targets are not checked here.
func (l *linter) checkRemaining(project *config.Project) {
	saves, _ := filepath.Abs(project.SavesDir())
	err := filepath.WalkDir(project.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == saves {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".cvn") {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil || l.visited[abs] {
			return nil
		}
		l.visited[abs] = true
		if _, err := l.loader.Load(abs); err != nil {
			l.reportf("%v", err)
		} else {
			l.checked++
		}
		return nil
	})
	if err != nil {
		l.reportf("walk %s: %v", project.Root, err)
	}
}
