package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, false, "[command] ")

	l.Debugf("hidden %d", 1)
	l.Infof("spawned %s", "ls")
	l.Errorln("failed")
	l.Warnf("careful")

	assert.Equal(t, "[command] spawned ls\n[command] failed\n[command] careful\n", out.String())

	out.Reset()
	l.IsDebug = true
	l.Debugf("shown %d", 2)
	assert.Equal(t, "[command] shown 2\n", out.String())
}

func TestMultilineMessages(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, false, "> ")

	l.Infof("a\nb")
	assert.Equal(t, "> a\n> b\n", out.String())
}

func TestFormatVerbsWithoutArgs(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, false, "")

	msg := "100% done"
	l.Errorf(msg)
	assert.Equal(t, "100% done\n", out.String())
}

func TestQuiet(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, true, "")
	l.IsQuiet = true

	l.Errorf("dropped")
	l.Debugf("dropped")
	l.Plainln("kept")

	assert.Equal(t, "kept\n", out.String())

	assert.NotPanics(t, func() { GetQuietLogger("x").Errorf("nothing") })
}

func TestSecondaryPrefixes(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, false, "[command] ")

	l.PushSecondaryPrefix("abc")
	l.Infof("one")

	l.WithAdditionalSecondaryPrefix("stderr", func() {
		l.Infof("two")
	})

	assert.Equal(t, "abc", l.PopSecondaryPrefix())
	assert.Equal(t, "", l.PopSecondaryPrefix())
	l.Infof("three")

	assert.Equal(t, "[command] [abc] one\n[command] [abc] [stderr] two\n[command] three\n", out.String())
}

func TestClone(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, false, "p ")
	l.PushSecondaryPrefix("a")

	cloned := l.Clone()
	cloned.PushSecondaryPrefix("b")

	l.Infof("original")
	cloned.Infof("clone")

	assert.Equal(t, []string{"a"}, l.GetSecondaryPrefixes())
	assert.Equal(t, "p [a] original\np [a] [b] clone\n", out.String())
}
