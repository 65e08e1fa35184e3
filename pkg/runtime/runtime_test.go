package runtime

import (
	"errors"
	"testing"

	"github.com/cpyvn/cpyvn/pkg/parser"
	"github.com/cpyvn/cpyvn/pkg/script"
)

func TestStepRunsUntilDialogueBlocks(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set coins 3;
		scene color #112233;
		narrator "First line.";
		narrator "Never reached this frame.";
	`)
	mustStep(t, rt, 0)

	if v, ok := rt.VarValue("coins"); !ok || v.String() != "3" {
		t.Errorf("coins = %v, want 3", v)
	}
	if rt.Background().Value != "#112233" {
		t.Errorf("background = %q, want #112233", rt.Background().Value)
	}
	d := rt.Dialogue()
	if d == nil || d.Text != "First line." {
		t.Fatalf("dialogue = %#v, want first line", d)
	}
	if rt.State() != StateRunning {
		t.Errorf("state = %v, want running with dialogue up", rt.State())
	}
}

func TestAdvanceClearsDialogueThenResumes(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		narrator "one";
		narrator "two";
	`)
	mustStep(t, rt, 0)
	if rt.Dialogue().Text != "one" {
		t.Fatalf("dialogue = %q, want one", rt.Dialogue().Text)
	}

	// The click clears the line; the same frame executes the next say.
	mustStep(t, rt, 16, ClickEvent(10, 10))
	if rt.Dialogue() == nil || rt.Dialogue().Text != "two" {
		t.Fatalf("dialogue = %#v, want two", rt.Dialogue())
	}

	mustStep(t, rt, 32, KeyEvent(KeyEnter))
	if rt.Dialogue() != nil {
		t.Errorf("dialogue = %#v, want cleared", rt.Dialogue())
	}
	if !rt.Finished() {
		t.Error("runtime should be finished after last line")
	}
}

func TestWaitTimerCountsDownByFrameDelta(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		wait 0.1;
		set done true;
	`)
	mustStep(t, rt, 0)
	if rt.State() != StateWaitingTimer {
		t.Fatalf("state = %v, want waiting timer", rt.State())
	}

	mustStep(t, rt, 50)
	if _, ok := rt.VarValue("done"); ok {
		t.Fatal("timer released too early")
	}

	mustStep(t, rt, 120)
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("timer did not release after its duration elapsed")
	}
}

func TestWaitZeroDoesNotBlock(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		wait 0;
		set done true;
	`)
	mustStep(t, rt, 0)
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("zero wait should fall through in the same frame")
	}
}

func TestUnknownJumpTargetHaltsRuntime(t *testing.T) {
	rt, _ := newTestRuntime(t, `go nowhere;`)
	err := rt.Step(0, nil)
	var ule *UnknownLabelError
	if !errors.As(err, &ule) {
		t.Fatalf("err = %v, want UnknownLabelError", err)
	}
	if ule.Label != "nowhere" {
		t.Errorf("label = %q, want nowhere", ule.Label)
	}

	// The runtime stays halted; further steps return the same error.
	if err2 := rt.Step(16, nil); !errors.As(err2, &ule) {
		t.Errorf("second step err = %v, want the stored fatal error", err2)
	}
}

func TestJumpStripsRootNamespacePrefix(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		label end:
		narrator "done";
	`)
	jumped, err := rt.jump("::end")
	if err != nil || !jumped {
		t.Fatalf("jump = %v, %v, want true, nil", jumped, err)
	}
	if rt.index != rt.program.Labels["end"] {
		t.Errorf("index = %d, want label position %d", rt.index, rt.program.Labels["end"])
	}
}

func TestInventoryToggleIsAPseudoTarget(t *testing.T) {
	rt, _ := newTestRuntime(t, `narrator "x";`)
	jumped, err := rt.jump("inventory_toggle")
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if jumped {
		t.Error("inventory_toggle must not move the command index")
	}
	if !rt.InventoryOpen() {
		t.Error("inventory should have toggled open")
	}
}

func TestJumpLoopTripsFrameValve(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		label spin:
		go spin;
	`)
	// A frame over a tight jump loop must terminate without error.
	mustStep(t, rt, 0)
	if rt.Finished() {
		t.Error("loop should still be mid-flight, not finished")
	}
}

func TestCheckBlockSkipsWhenConditionFails(t *testing.T) {
	src := `
		check coins >= 10 {
			narrator "rich";
		}
		narrator "after";
	`
	rt, _ := newTestRuntime(t, src)
	rt.SetVarValue("coins", script.NumberValue(5))
	mustStep(t, rt, 0)
	if rt.Dialogue().Text != "after" {
		t.Errorf("dialogue = %q, want the block skipped", rt.Dialogue().Text)
	}

	rt2, _ := newTestRuntime(t, src)
	rt2.SetVarValue("coins", script.NumberValue(10))
	mustStep(t, rt2, 0)
	if rt2.Dialogue().Text != "rich" {
		t.Errorf("dialogue = %q, want the block entered", rt2.Dialogue().Text)
	}
}

func TestTitleMenuSuppressesExecution(t *testing.T) {
	prog, err := parser.ParseSource(`set started true;`, "test.cvn")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	proj := testProject(t)
	proj.UI.TitleMenuEnabled = true
	rt := New(prog, proj.EntryPath(), Options{Assets: NewMockAssets(), Project: proj})

	mustStep(t, rt, 0)
	if _, ok := rt.VarValue("started"); ok {
		t.Error("script must not run behind the title menu")
	}
	if rt.State() != StateTitleMenu {
		t.Errorf("state = %v, want title menu", rt.State())
	}
}

func TestEscapeOpensPauseAndFreezesClocks(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		notify "saved" 2;
		wait 5;
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, KeyEvent(KeyEscape))
	if rt.State() != StatePauseMenu {
		t.Fatalf("state = %v, want pause menu", rt.State())
	}

	remain := rt.Notification().RemainingMS
	mustStep(t, rt, 1016)
	if rt.Notification() == nil || rt.Notification().RemainingMS != remain {
		t.Error("notification clock advanced while paused")
	}
	if rt.timerRemainMS <= 0 {
		t.Error("wait timer drained while paused")
	}
}

func TestVoiceUsesCharacterVoiceTag(t *testing.T) {
	rt, assets := newTestRuntime(t, `
		character alice {
			name "Alice";
			voice "alice";
		};
		voice alice "greet_01.ogg";
		voice alice "lines/greet_02.ogg";
		voice "narrator_01.ogg";
	`)
	mustStep(t, rt, 0)
	want := []string{"alice/greet_01.ogg", "lines/greet_02.ogg", "narrator_01.ogg"}
	if len(assets.playedVoices) != len(want) {
		t.Fatalf("voices = %v, want %v", assets.playedVoices, want)
	}
	for i, p := range want {
		if assets.playedVoices[i] != p {
			t.Errorf("voice[%d] = %q, want %q", i, assets.playedVoices[i], p)
		}
	}
}

func TestWaitVoicePollsTheMixer(t *testing.T) {
	rt, assets := newTestRuntime(t, `
		voice "a.ogg";
		wait voice;
		set done true;
	`)
	assets.voicePlaying = true
	mustStep(t, rt, 0)
	if rt.State() != StateWaitingVoice {
		t.Fatalf("state = %v, want waiting voice", rt.State())
	}

	mustStep(t, rt, 16)
	if _, ok := rt.VarValue("done"); ok {
		t.Fatal("released while the voice line was still playing")
	}

	assets.voicePlaying = false
	mustStep(t, rt, 32)
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("wait voice did not release when playback stopped")
	}
}

func TestAudioCommandsHitTheAssetManager(t *testing.T) {
	rt, assets := newTestRuntime(t, `
		play tune "bgm/theme.ogg";
		play tune "bgm/sting.ogg" false;
		sound effect "sfx/door.wav";
		echo "amb/rain.ogg" start;
		echo stop;
		mute music;
	`)
	mustStep(t, rt, 0)

	if len(assets.playedMusic) != 2 || !assets.playedMusic[0].Loop || assets.playedMusic[1].Loop {
		t.Errorf("music calls = %#v, want loop then one-shot", assets.playedMusic)
	}
	if m := rt.Music(); m == nil || m.Path != "bgm/sting.ogg" {
		t.Errorf("music state = %#v, want the last play", m)
	}
	if len(assets.playedSounds) != 1 || assets.playedSounds[0] != "sfx/door.wav" {
		t.Errorf("sounds = %v", assets.playedSounds)
	}
	if len(assets.playedEchoes) != 1 || assets.echoStops != 1 {
		t.Errorf("echo calls = %v starts, %d stops", assets.playedEchoes, assets.echoStops)
	}
	if len(assets.mutedTargets) != 1 || assets.mutedTargets[0] != "music" {
		t.Errorf("muted = %v", assets.mutedTargets)
	}
}

func TestNotifyAndBlendExpire(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		notify "Game saved" 1;
		blend flash 0.5;
	`)
	mustStep(t, rt, 0)
	if rt.Notification() == nil || rt.Notification().Text != "Game saved" {
		t.Fatalf("notification = %#v", rt.Notification())
	}
	if rt.ActiveBlend() == nil || rt.ActiveBlend().Style != "flash" {
		t.Fatalf("blend = %#v", rt.ActiveBlend())
	}

	mustStep(t, rt, 600)
	if rt.ActiveBlend() != nil {
		t.Error("blend should have expired at 600ms")
	}
	if rt.Notification() == nil {
		t.Fatal("notification expired too early")
	}

	mustStep(t, rt, 1100)
	if rt.Notification() != nil {
		t.Error("notification should have expired after one second")
	}
}

func TestBlendNoneClearsTransition(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		blend flash 10;
		blend none 0;
	`)
	mustStep(t, rt, 0)
	if rt.ActiveBlend() != nil {
		t.Errorf("blend = %#v, want cleared by the none style", rt.ActiveBlend())
	}
}

func TestVideoPlaybackLifecycle(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		video play "mov/intro.mp4";
		wait video;
		set done true;
	`)
	backend := NewMockVideoBackend()
	backend.finishAfter = 3
	rt.video = backend

	mustStep(t, rt, 0)
	if rt.State() != StateWaitingVideo {
		t.Fatalf("state = %v, want waiting video", rt.State())
	}
	if len(backend.playbacks) != 1 || backend.playbacks[0].path != "mov/intro.mp4" {
		t.Fatalf("playbacks = %#v", backend.playbacks)
	}

	mustStep(t, rt, 16)
	if rt.ActiveVideo() == nil || rt.ActiveVideo().Frame == nil {
		t.Fatal("no frame stored after an update")
	}

	mustStep(t, rt, 32)
	mustStep(t, rt, 48)
	// Finishing closes the session and releases the wait in the same frame.
	if rt.ActiveVideo() != nil {
		t.Fatal("video state should clear when the stream finishes")
	}
	if backend.playbacks[0].closes == 0 {
		t.Error("playback was not closed")
	}
	stepUntil(t, rt, func() bool { _, ok := rt.VarValue("done"); return ok })
}

func TestVideoWithoutBackendSkips(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		video play "mov/intro.mp4";
		wait video;
		set done true;
	`)
	mustStep(t, rt, 0)
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("with no backend both the play and the wait must fall through")
	}
}

func TestVideoStopIsSynchronous(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		video play "mov/rain.mp4" loop true;
		video stop;
	`)
	backend := NewMockVideoBackend()
	rt.video = backend
	mustStep(t, rt, 0)
	if rt.ActiveVideo() != nil {
		t.Error("stop should clear the video state in the same frame")
	}
	if len(backend.playbacks) != 1 || backend.playbacks[0].closes == 0 {
		t.Error("stop must close the playback session")
	}
}

func TestLoadingBlockTogglesOverlay(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		loading "Entering the city..." {
			wait 0.05;
		}
		set done true;
	`)
	mustStep(t, rt, 0)
	if !rt.Loading().Active || rt.Loading().Text != "Entering the city..." {
		t.Fatalf("loading = %#v, want active overlay", rt.Loading())
	}

	stepUntil(t, rt, func() bool { _, ok := rt.VarValue("done"); return ok })
	if rt.Loading().Active {
		t.Error("loading overlay should be gone after the block ends")
	}
}

func TestEffectiveTextSpeedPrefersPrefs(t *testing.T) {
	rt, _ := newTestRuntime(t, `narrator "x";`)
	if got := rt.EffectiveTextSpeed(); got != 40 {
		t.Errorf("default speed = %v, want 40", got)
	}
	rt.prefs.TextSpeed = 80
	if got := rt.EffectiveTextSpeed(); got != 80 {
		t.Errorf("speed with prefs = %v, want 80", got)
	}
}
