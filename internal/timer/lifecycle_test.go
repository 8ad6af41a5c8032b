package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/tickr/internal/config"
)

func TestNewPresets(t *testing.T) {
	tests := []struct {
		preset config.Preset
		kind   Kind
		dur    int64
	}{
		{config.PresetStandard, Countdown, 5 * 60_000},
		{config.PresetPomodoro, Countdown, 25 * 60_000},
		{config.PresetStopwatch, Stopwatch, 0},
		{config.PresetInterval, Interval, 25 * 60_000},
	}
	for _, tt := range tests {
		tm, err := New(tt.preset, "")
		require.NoError(t, err, tt.preset)
		assert.NotEmpty(t, tm.ID)
		assert.Equal(t, tt.kind, tm.Kind, tt.preset)
		assert.Equal(t, tt.dur, tm.DurationMs, tt.preset)
		assert.Equal(t, config.Color(tt.preset), tm.Color)
		assert.Equal(t, config.Label(tt.preset), tm.Label)
		assert.False(t, tm.IsRunning)
		assert.Nil(t, tm.StartedAtMs)
		assert.Zero(t, tm.ElapsedMs)
	}
}

func TestNewIntervalUsesCycleSettings(t *testing.T) {
	c := config.Cycle{
		Work:              10 * time.Minute,
		ShortBreak:        2 * time.Minute,
		LongBreak:         8 * time.Minute,
		IntervalsPerCycle: 4,
	}
	tm, err := NewWithCycle(config.PresetInterval, "Study", c)
	require.NoError(t, err)
	require.NotNil(t, tm.Cycle)
	assert.Equal(t, "Study", tm.Label)
	assert.Equal(t, Work, tm.Cycle.Phase)
	assert.Equal(t, 0, tm.Cycle.IntervalCount)
	assert.Equal(t, 4, tm.Cycle.IntervalsPerCycle)
	assert.Equal(t, int64(10*60_000), tm.DurationMs)
	assert.Equal(t, int64(8*60_000), tm.Cycle.LongBreakMs)
	assert.False(t, tm.Cycle.AutoContinue)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(config.Preset("kettle"), "")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewWithCycle(config.PresetInterval, "", config.Cycle{Work: time.Minute, ShortBreak: time.Minute, LongBreak: time.Minute})
	assert.ErrorIs(t, err, ErrInvalidTimer, "zero intervals per cycle")
}

func TestNewUniqueIDs(t *testing.T) {
	a, err := New(config.PresetStandard, "")
	require.NoError(t, err)
	b, err := New(config.PresetStandard, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStartPause(t *testing.T) {
	tm := countdown(60_000)
	started, err := Start(tm, 1_000)
	require.NoError(t, err)
	assert.True(t, started.IsRunning)
	assert.Equal(t, int64(1_000), *started.StartedAtMs)
	assert.False(t, tm.IsRunning, "input must not change")

	paused, err := Pause(started, 4_500)
	require.NoError(t, err)
	assert.False(t, paused.IsRunning)
	assert.Nil(t, paused.StartedAtMs)
	assert.Equal(t, int64(3_500), paused.ElapsedMs)

	resumed, err := Start(paused, 10_000)
	require.NoError(t, err)
	assert.Equal(t, int64(3_500+500), CurrentElapsedMs(resumed, 10_500))
}

func TestStartRunningIsContractViolation(t *testing.T) {
	tm := running(countdown(60_000), 0)
	out, err := Start(tm, 5)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, tm, out)

	var te *TimerError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "start", te.Op)
	assert.Equal(t, "cd", te.ID)
}

func TestPauseTwice(t *testing.T) {
	tm := running(countdown(60_000), 0)
	once, err := Pause(tm, 2_000)
	require.NoError(t, err)

	twice, err := Pause(once, 9_000)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, once.ElapsedMs, twice.ElapsedMs)
	assert.Equal(t, once, twice)
}

func TestReset(t *testing.T) {
	tm := running(countdown(60_000), 0)
	tm.ElapsedMs = 800
	out := Reset(tm)
	assert.Zero(t, out.ElapsedMs)
	assert.False(t, out.IsRunning)
	assert.Nil(t, out.StartedAtMs)
	assert.Equal(t, int64(60_000), out.DurationMs)
}

func TestResetIntervalMidLongBreak(t *testing.T) {
	tm := intervalTimer(2)
	tm.Cycle.Phase = LongBreak
	tm.Cycle.IntervalCount = 5
	tm.DurationMs = longMs
	tm = running(tm, 100)

	out := Reset(tm)
	assert.Equal(t, Work, out.Cycle.Phase)
	assert.Equal(t, 0, out.Cycle.IntervalCount)
	assert.Equal(t, int64(workMs), out.DurationMs)
	assert.False(t, out.IsRunning)
	assert.Equal(t, LongBreak, tm.Cycle.Phase, "input must not change")
}

func TestToggle(t *testing.T) {
	tm := countdown(60_000)
	on, err := Toggle(tm, 0)
	require.NoError(t, err)
	assert.True(t, on.IsRunning)

	off, err := Toggle(on, 1_500)
	require.NoError(t, err)
	assert.False(t, off.IsRunning)
	assert.Equal(t, int64(1_500), off.ElapsedMs)
}

func TestToggleSpentCountdownResets(t *testing.T) {
	done, _, err := Finish(running(countdown(1_000), 0), 1_000)
	require.NoError(t, err)
	require.True(t, Spent(done, 2_000))

	out, err := Toggle(done, 2_000)
	require.NoError(t, err)
	assert.False(t, out.IsRunning, "toggling a spent countdown only resets it")
	assert.Zero(t, out.ElapsedMs)
	assert.Equal(t, int64(1_000), CurrentRemainingMs(out, 2_000))
	assert.False(t, Spent(out, 2_000))
}

func TestStartSpentCountdownStartsOver(t *testing.T) {
	done, _, err := Finish(running(countdown(1_000), 0), 1_300)
	require.NoError(t, err)

	out, err := Start(done, 5_000)
	require.NoError(t, err)
	assert.True(t, out.IsRunning)
	assert.Zero(t, out.ElapsedMs)
	assert.False(t, HasCompleted(out, 5_000))
	assert.Equal(t, int64(400), CurrentRemainingMs(out, 5_600))
}

func TestToggleSkipsBreak(t *testing.T) {
	tm := intervalTimer(2)
	tm.Cycle.Phase = ShortBreak
	tm.DurationMs = shortMs
	tm = running(tm, 0)

	out, err := Toggle(tm, 60_000)
	require.NoError(t, err)
	assert.Equal(t, Work, out.Cycle.Phase)
	assert.Equal(t, 1, out.Cycle.IntervalCount)
	assert.Equal(t, int64(workMs), out.DurationMs)
	assert.True(t, out.IsRunning, "skipping a break keeps the timer running")
	assert.Equal(t, int64(60_000), *out.StartedAtMs)
	assert.Zero(t, out.ElapsedMs)
}

func TestToggleSkipsBreakWithoutAutoContinue(t *testing.T) {
	tm := intervalTimer(2)
	tm.Cycle.Phase = LongBreak
	tm.Cycle.IntervalCount = 1
	tm.Cycle.AutoContinue = false
	tm.DurationMs = longMs
	tm = running(tm, 0)

	out, err := Toggle(tm, 10)
	require.NoError(t, err)
	assert.Equal(t, Work, out.Cycle.Phase)
	assert.Equal(t, 2, out.Cycle.IntervalCount)
	assert.True(t, out.IsRunning)
}

func TestTogglePausedBreakStarts(t *testing.T) {
	tm := intervalTimer(2)
	tm.Cycle.Phase = ShortBreak
	tm.DurationMs = shortMs

	out, err := Toggle(tm, 10)
	require.NoError(t, err)
	assert.Equal(t, ShortBreak, out.Cycle.Phase)
	assert.True(t, out.IsRunning)
}

func TestFinish(t *testing.T) {
	tm := running(countdown(1_000), 0)
	out, n, err := Finish(tm, 1_200)
	require.NoError(t, err)
	assert.False(t, out.IsRunning)
	assert.Equal(t, int64(1_200), out.ElapsedMs)
	assert.Zero(t, CurrentRemainingMs(out, 5_000))
	assert.Equal(t, "Tea", n.Title)
	assert.True(t, n.Immediate())

	_, _, err = Finish(intervalTimer(2), 0)
	assert.ErrorIs(t, err, ErrInvalidTimer)
}

func TestEdit(t *testing.T) {
	tm := running(countdown(60_000), 0)
	out, err := Edit(tm, Changes{
		Label:      ptr("Eggs"),
		Color:      ptr("#123456"),
		DurationMs: ptr(int64(120_000)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eggs", out.Label)
	assert.Equal(t, "#123456", out.Color)
	assert.Equal(t, int64(120_000), out.DurationMs)
	assert.True(t, out.IsRunning, "edit keeps the running anchor")
	assert.Equal(t, int64(0), *out.StartedAtMs)
}

func TestEditIntervalDuration(t *testing.T) {
	tm := intervalTimer(2)
	tm.Cycle.Phase = ShortBreak
	tm.DurationMs = shortMs

	out, err := Edit(tm, Changes{DurationMs: ptr(int64(60_000))})
	require.NoError(t, err)
	assert.Equal(t, int64(60_000), out.DurationMs)
	assert.Equal(t, int64(60_000), out.Cycle.ShortBreakMs)
	assert.Equal(t, int64(workMs), out.Cycle.WorkMs)
}

func TestEditCycleSettings(t *testing.T) {
	tm := intervalTimer(2)
	out, err := Edit(tm, Changes{Cycle: &CycleSettings{
		WorkMs: 50_000, ShortBreakMs: 10_000, LongBreakMs: 30_000, IntervalsPerCycle: 4,
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), out.DurationMs)
	assert.Equal(t, 4, out.Cycle.IntervalsPerCycle)
	assert.False(t, out.Cycle.AutoContinue)
}

func TestEditRejects(t *testing.T) {
	sw := Timer{ID: "sw", Kind: Stopwatch}
	out, err := Edit(sw, Changes{DurationMs: ptr(int64(5))})
	assert.ErrorIs(t, err, ErrInvalidTimer)
	assert.Equal(t, sw, out)

	_, err = Edit(countdown(1), Changes{Cycle: &CycleSettings{WorkMs: 1, ShortBreakMs: 1, LongBreakMs: 1, IntervalsPerCycle: 1}})
	assert.ErrorIs(t, err, ErrNotInterval)

	_, err = Edit(countdown(1), Changes{DurationMs: ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrInvalidTimer)

	_, err = Edit(intervalTimer(2), Changes{Cycle: &CycleSettings{WorkMs: 1, ShortBreakMs: 1, LongBreakMs: 1}})
	assert.ErrorIs(t, err, ErrInvalidTimer)
}

func TestValidate(t *testing.T) {
	good := intervalTimer(2)
	require.NoError(t, good.Validate())

	tests := []struct {
		name   string
		mutate func(*Timer)
		target error
	}{
		{"missing id", func(t *Timer) { t.ID = "" }, ErrInvalidTimer},
		{"unknown kind", func(t *Timer) { t.Kind = Kind(9) }, ErrUnknownKind},
		{"running without anchor", func(t *Timer) { t.IsRunning = true }, ErrInvalidTimer},
		{"anchor without running", func(t *Timer) { t.StartedAtMs = ptr(int64(1)) }, ErrInvalidTimer},
		{"negative elapsed", func(t *Timer) { t.ElapsedMs = -1 }, ErrInvalidTimer},
		{"missing cycle", func(t *Timer) { t.Cycle = nil }, ErrInvalidTimer},
		{"unknown phase", func(t *Timer) { t.Cycle.Phase = Phase(7) }, ErrUnknownPhase},
		{"zero per cycle", func(t *Timer) { t.Cycle.IntervalsPerCycle = 0 }, ErrInvalidTimer},
		{"negative count", func(t *Timer) { t.Cycle.IntervalCount = -1 }, ErrInvalidTimer},
		{"zero work", func(t *Timer) { t.Cycle.WorkMs = 0 }, ErrInvalidTimer},
	}
	for _, tt := range tests {
		tm := intervalTimer(2).clone()
		tt.mutate(&tm)
		assert.ErrorIs(t, tm.Validate(), tt.target, tt.name)
	}

	cd := countdown(5)
	cd.Cycle = &Cycle{IntervalsPerCycle: 1, WorkMs: 1, ShortBreakMs: 1, LongBreakMs: 1}
	assert.ErrorIs(t, cd.Validate(), ErrInvalidTimer, "countdown with cycle state")
}

func TestArmCompletion(t *testing.T) {
	tm := running(countdown(10_000), 1_000)
	n, ok := ArmCompletion(tm, 4_000)
	require.True(t, ok)
	require.NotNil(t, n.FireAtMs)
	assert.Equal(t, int64(11_000), *n.FireAtMs)
	assert.Equal(t, "cd", n.TimerID)

	iv := running(intervalTimer(2), 0)
	n, ok = ArmCompletion(iv, 0)
	require.True(t, ok)
	assert.Equal(t, "Work phase completed", n.Body)

	_, ok = ArmCompletion(countdown(10_000), 0)
	assert.False(t, ok, "paused timers are not armed")

	_, ok = ArmCompletion(running(Timer{ID: "sw", Kind: Stopwatch}, 0), 0)
	assert.False(t, ok, "stopwatches never complete")
}

func TestParseRoundTrip(t *testing.T) {
	for _, k := range []Kind{Countdown, Stopwatch, Interval} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for _, p := range []Phase{Work, ShortBreak, LongBreak} {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseKind("hourglass")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = ParsePhase("Nap")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}
