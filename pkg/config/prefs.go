package config

import (
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cpyvn/cpyvn/pkg/fileutil"
)

// Prefs holds player preferences stored in the saves directory. A
// TextSpeed of zero means "no override".
type Prefs struct {
	TextSpeed  float64
	MutedMusic bool
	MutedSound bool
	MutedVoice bool
}

// LoadPrefs reads prefs.json tolerantly; a missing file or field leaves
// the zero value.
func LoadPrefs(path string) Prefs {
	var p Prefs
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	p.TextSpeed = gjson.GetBytes(data, "text_speed").Float()
	p.MutedMusic = gjson.GetBytes(data, "muted.music").Bool()
	p.MutedSound = gjson.GetBytes(data, "muted.sound").Bool()
	p.MutedVoice = gjson.GetBytes(data, "muted.voice").Bool()
	return p
}

// SetPref updates one field of prefs.json in place, creating the file if
// needed and preserving fields written by other tools. Keys use gjson
// path syntax, e.g. "muted.music".
func SetPref(path, key string, value any) error {
	data, _ := os.ReadFile(path)
	if len(data) == 0 {
		data = []byte("{}")
	}
	out, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, out, 0o644)
}
